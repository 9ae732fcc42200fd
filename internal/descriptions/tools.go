package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Extraction Tools
	CardExtractDescription = `Extract a structured contact record from a business card image.

**When to use:** You have a photo or scan of a business card and need the person's name, title, company, phone, email, website, and address as structured fields.

**Why it's useful:** Runs the full recognition pipeline (cloud vision when available, local OCR otherwise, digital text layer for PDF cards) and applies field-level heuristics with per-field confidence scores, so low-quality guesses are dropped rather than returned.

**Examples:**
• Capture a contact: "Extract the contact from scans/jane-lee.jpg"
• Process a batch: "Extract contacts from every image in /cards/ and collect the emails"
• Digital cards: "Extract the contact from vcard-export.pdf"

**Common workflows:**
1. Contact Capture: Extract record → Review confidences → Save to CRM
2. Batch Import: Validate files → Extract each → Collect records → Deduplicate
3. Quality Triage: Extract → Check diagnostics for fallback/quality issues → Re-scan weak cards

**Best practices:** Validate the file first with card_validate_file; fields below their confidence floor come back empty rather than wrong, so an empty field means "not confident", not "not present".`

	CardBackendRecommendDescription = `Report which recognition engine would handle the next extraction and why.

**When to use:** Before a batch run, when diagnosing why extractions are slow or degraded, or to confirm offline mode is in effect.

**Why it's useful:** Engine selection depends on live resource state (credentials, network reachability, quota); this query evaluates the same precedence the extractor uses without spending an invocation.

**Examples:**
• Pre-flight check: "Confirm the cloud engine is available before processing 200 cards"
• Diagnosis: "Why did the last extractions all use local OCR?"
• Offline verification: "Confirm forced-offline mode is active on this host"

**Common workflows:**
1. Batch Planning: Check recommendation → Size the batch for the engine's speed → Run
2. Incident Triage: Check recommendation → Read the reason → Fix credentials/network/quota
3. Configuration Audit: Set flags → Confirm the recommendation matches intent

**Best practices:** The reason string names exactly one deciding factor; fix that factor and re-query rather than guessing.`

	CardUsageStatsDescription = `Get per-engine invocation counts, recent errors, and timing samples.

**When to use:** Monitoring quota consumption, investigating failures, or measuring extraction latency over the process lifetime.

**Why it's useful:** The error log and timing samples are bounded ring buffers, so this query is always cheap and always reflects the most recent activity.

**Examples:**
• Quota watch: "How many cloud invocations have we used this run?"
• Failure review: "Show the recent recognition errors with their categories"
• Latency check: "Compare cloud vs local timing samples"

**Common workflows:**
1. Quota Management: Check counts → Compare against ceiling → Throttle or switch offline
2. Error Analysis: Review error samples → Group by category → Address the dominant cause
3. Performance Review: Collect timing samples → Compare engines → Tune timeouts

**Best practices:** Counters persist until card_usage_reset; errors keep the last 50 samples and timings the last 100.`

	CardUsageResetDescription = `Clear all usage counters, error samples, and timing samples.

**When to use:** Starting a new measurement window, after resolving an incident, or when a quota period rolls over.

**Why it's useful:** Usage state never expires on its own; an explicit reset is the only way to start a clean window.

**Examples:**
• New window: "Reset usage before tonight's batch run"
• Post-incident: "Clear the error log now that the network issue is fixed"
• Quota rollover: "Reset the cloud counter at the start of the billing period"

**Common workflows:**
1. Measurement Windows: Reset → Run workload → Snapshot stats → Compare windows
2. Incident Closure: Fix cause → Reset → Monitor for recurrence

**Best practices:** Snapshot card_usage_stats before resetting if you need the old numbers.`

	CardValidateFileDescription = `Verify a card image file exists, is a supported format, and is within the size limit.

**When to use:** Before extraction, especially in automated workflows or when handling user uploads.

**Why it's useful:** Catches missing files, unsupported formats, and oversized inputs before they cost a recognition invocation.

**Examples:**
• Upload check: "Validate upload-3012.png before extracting"
• Batch safety: "Validate every file in /cards/ and skip the bad ones"
• Format check: "Confirm card.heic is supported before processing"

**Common workflows:**
1. Automated Processing: Validate → Extract if valid → Handle rejects gracefully
2. Batch Filtering: Validate all → Queue the valid set → Report the rest

**Best practices:** Run first in any pipeline that processes files it did not produce; supported formats are JPEG, PNG, and PDF.`

	CardServerInfoDescription = `Get server status, engine availability, available tools, and usage guidance.

**When to use:** Starting a session, troubleshooting, or discovering what the server can do.

**Why it's useful:** Shows the configured card directory, the current engine recommendation, and every tool with its description in one call.

**Examples:**
• Session startup: "Check the server is ready and which engine will be used"
• Troubleshooting: "Verify the card directory path the server is watching"
• Discovery: "List all available tools and their parameters"

**Common workflows:**
1. Session Startup: Check info → Verify engine availability → Plan the work
2. Debugging: Review configuration → Check directory → Confirm tool availability

**Best practices:** Run at the start of a session; pair with card_backend_recommend for live engine state.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"card_extract":           CardExtractDescription,
	"card_backend_recommend": CardBackendRecommendDescription,
	"card_usage_stats":       CardUsageStatsDescription,
	"card_usage_reset":       CardUsageResetDescription,
	"card_validate_file":     CardValidateFileDescription,
	"card_server_info":       CardServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
