// Package arbiter runs the final cross-field validation over the extractors'
// surviving candidates. The rules form a deterministic chain whose order is
// load-bearing: rule three can only repair a title/company mix-up because
// rules one and two have already run. Do not reorder.
package arbiter

import (
	"strings"

	"github.com/mehanshivam/visitingcard/internal/fields"
)

// titleReassignmentCeiling is the title confidence below which a suffix-
// bearing title line is treated as a misclassified company line.
const titleReassignmentCeiling = 80

// Floors are the minimum per-field confidences enforced after the conflict
// rules. Fields below their floor are cleared, not errored.
type Floors struct {
	Name    int
	Title   int
	Company int
}

// DefaultFloors returns the standard minimums.
func DefaultFloors() Floors {
	return Floors{Name: 50, Title: 60, Company: 50}
}

// Input is the set of candidates subject to cross-field arbitration. Any
// entry may be nil.
type Input struct {
	Name    *fields.Candidate
	Title   *fields.Candidate
	Company *fields.Candidate
}

// Result is the arbitrated outcome plus a trace of the rules that fired.
type Result struct {
	Name    *fields.Candidate
	Title   *fields.Candidate
	Company *fields.Candidate

	RulesFired []string
}

// Resolve applies the four rules in their fixed order and returns the
// surviving fields.
func Resolve(in Input, floors Floors) Result {
	out := Result{Name: in.Name, Title: in.Title, Company: in.Company}

	// Rule 1: a name containing title vocabulary is not a name.
	if out.Name != nil && fields.ContainsTitleKeyword(out.Name.Text) {
		out.Name = nil
		out.RulesFired = append(out.RulesFired, "name contained title keyword")
	}

	// Rule 2: company equal to name is a duplicate assignment.
	if out.Company != nil && out.Name != nil &&
		strings.EqualFold(out.Company.Text, out.Name.Text) {
		out.Company = nil
		out.RulesFired = append(out.RulesFired, "company duplicated name")
	}

	// Rule 3: a weak, suffix-bearing title with no company present is a
	// misclassified company line; reassign it.
	if out.Title != nil && out.Company == nil &&
		fields.ContainsBusinessSuffix(out.Title.Text) &&
		out.Title.Confidence < titleReassignmentCeiling {
		reassigned := *out.Title
		reassigned.Reasons = append(append([]string{}, out.Title.Reasons...),
			"reassigned from title: carries business suffix")
		out.Company = &reassigned
		out.Title = nil
		out.RulesFired = append(out.RulesFired, "title reassigned to company")
	}

	// Rule 4: enforce per-field confidence floors.
	if out.Name != nil && out.Name.Confidence < floors.Name {
		out.Name = nil
		out.RulesFired = append(out.RulesFired, "name below confidence floor")
	}
	if out.Title != nil && out.Title.Confidence < floors.Title {
		out.Title = nil
		out.RulesFired = append(out.RulesFired, "title below confidence floor")
	}
	if out.Company != nil && out.Company.Confidence < floors.Company {
		out.Company = nil
		out.RulesFired = append(out.RulesFired, "company below confidence floor")
	}

	return out
}
