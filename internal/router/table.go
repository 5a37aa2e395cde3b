package router

import (
	"regexp"

	"github.com/novassist/nova/internal/domain"
)

// Rule binds a pattern to a category. Named capture groups become the
// command's slots.
type Rule struct {
	Category domain.Category
	Pattern  *regexp.Regexp
}

// NewTable returns the categorization rules in priority order:
// application, system, network, utility. The first matching rule wins,
// so earlier categories shadow later ones ("open task manager" is an
// application command even though task manager is also a utility).
func NewTable() []Rule {
	return []Rule{
		// Application
		{domain.CategoryApplication, regexp.MustCompile(`(?i)\b(?:open|launch|start|run)\s+(?:the\s+)?(?P<app_name>.+)`)},
		{domain.CategoryApplication, regexp.MustCompile(`(?i)\b(?:close|quit|kill)\s+(?:the\s+)?(?P<app_name>.+)`)},

		// System
		{domain.CategorySystem, regexp.MustCompile(`(?i)\b(?P<action>shutdown|shut\s+down|restart|reboot)\b(?:\s+(?:the\s+)?(?:computer|system|pc|machine))?(?P<tail>.*)`)},
		{domain.CategorySystem, regexp.MustCompile(`(?i)\b(?P<action>lock)\s+(?:the\s+)?(?:screen|computer|pc)\b`)},
		{domain.CategorySystem, regexp.MustCompile(`(?i)\bput\s+(?:the\s+)?(?:computer|system|pc)\s+to\s+(?P<action>sleep)\b`)},
		{domain.CategorySystem, regexp.MustCompile(`(?i)\b(?P<action>sleep|hibernate)\b(?:\s+(?:the\s+)?(?:computer|system|pc))?`)},
		{domain.CategorySystem, regexp.MustCompile(`(?i)\b(?P<action>log\s*out|sign\s*out)\b`)},

		// Network
		{domain.CategoryNetwork, regexp.MustCompile(`(?i)\bturn\s+(?P<state>on|off)\s+(?:the\s+)?(?P<adapter>wifi|wi-fi|wireless|bluetooth)\b`)},
		{domain.CategoryNetwork, regexp.MustCompile(`(?i)\bturn\s+(?:the\s+)?(?P<adapter>wifi|wi-fi|wireless|bluetooth)\s+(?P<state>on|off)\b`)},
		{domain.CategoryNetwork, regexp.MustCompile(`(?i)\b(?P<state>enable|disable)\s+(?:the\s+)?(?P<adapter>wifi|wi-fi|wireless|bluetooth)\b`)},
		{domain.CategoryNetwork, regexp.MustCompile(`(?i)\b(?:what(?:'s| is)\s+my|show\s+(?:my\s+)?|tell\s+me\s+my\s+)(?P<info>ip\s+address|ip)\b`)},
		{domain.CategoryNetwork, regexp.MustCompile(`(?i)\b(?P<action>connect|disconnect)\s+(?:to\s+|from\s+)?(?:the\s+)?(?:network\s+)?(?P<network>.+)`)},
		{domain.CategoryNetwork, regexp.MustCompile(`(?i)\b(?:check\s+)?(?:the\s+)?(?P<info>network|wifi|wi-fi)\s+status\b`)},

		// Utility
		{domain.CategoryUtility, regexp.MustCompile(`(?i)\b(?:show|display|check)\s+(?:me\s+)?(?:the\s+)?(?:running\s+)?(?P<utility>processes|task\s+manager|cpu|memory|ram)\b`)},
		{domain.CategoryUtility, regexp.MustCompile(`(?i)\bturn\s+(?:the\s+)?volume\s+(?P<direction>up|down)\b`)},
		{domain.CategoryUtility, regexp.MustCompile(`(?i)\b(?P<direction>mute|unmute)\b(?:\s+(?:the\s+)?(?:volume|sound|audio))?`)},
		{domain.CategoryUtility, regexp.MustCompile(`(?i)\b(?P<utility>control\s+panel|task\s+manager|file\s+explorer|settings|calculator)\b`)},
	}
}

// slots extracts named capture groups from a rule match. Returns nil
// when the pattern did not match.
func (r Rule) slots(text string) map[string]string {
	m := r.Pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	out := make(map[string]string)
	for i, name := range r.Pattern.SubexpNames() {
		if name == "" || i >= len(m) {
			continue
		}
		out[name] = m[i]
	}
	return out
}

// fallbackKeywords maps each category to the loose keywords used when
// no rule pattern matched. Scanned in the same category order as the
// rule table.
var fallbackKeywords = []struct {
	Category domain.Category
	Words    []string
}{
	{domain.CategoryApplication, []string{"open", "launch", "start", "run"}},
	{domain.CategorySystem, []string{"shutdown", "shut down", "restart", "lock", "sleep", "hibernate", "log out", "turn off the computer"}},
	{domain.CategoryNetwork, []string{"wifi", "wi-fi", "wireless", "bluetooth", "ip address", "network"}},
	{domain.CategoryUtility, []string{"control panel", "task manager", "file explorer", "processes", "volume"}},
}
