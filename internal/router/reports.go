package router

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// reportSubjects are the canonical report sub-types the POS can render.
var reportSubjects = []string{
	"sales",
	"purchase",
	"profit",
	"loss",
	"profit and loss",
	"expense",
	"gst",
	"tax",
	"stock",
	"inventory",
	"low stock",
	"dead stock",
	"daily",
	"weekly",
	"monthly",
	"payment",
	"cash",
	"cash flow",
	"credit",
	"udhaar",
	"customer",
	"top items",
	"top products",
	"category",
	"category sales",
	"hourly sales",
	"margin",
	"wastage",
	"supplier",
	"reorder",
	"collection",
	"outstanding",
	"balance",
	"commission",
	"discount",
	"return",
}

// reportTemplates expand each subject into the phrasings shopkeepers
// actually use. %s is the subject.
var reportTemplates = []string{
	"%s report",
	"%s summary",
	"%s statement",
	"%s breakdown",
	"%s overview",
	"%s figures",
	"%s details",
	"%s sheet",
	"report of %s",
	"summary of %s",
}

var (
	reportOnce    sync.Once
	reportRE      *regexp.Regexp
	reportByAlias map[string]string
)

// compileReportMatcher builds the combined phrase matcher. With ~36
// subjects and 10 phrasings each this is several hundred alternatives;
// it is compiled exactly once, on first use, and cached for the process
// lifetime. Rebuilding it per utterance would be a serious regression.
func compileReportMatcher() {
	reportByAlias = make(map[string]string, len(reportSubjects)*len(reportTemplates))
	phrases := make([]string, 0, len(reportSubjects)*len(reportTemplates))

	for _, subject := range reportSubjects {
		canonical := strings.ReplaceAll(subject, " ", "-")
		for _, tmpl := range reportTemplates {
			phrase := strings.ReplaceAll(tmpl, "%s", subject)
			reportByAlias[phrase] = canonical
			phrases = append(phrases, phrase)
		}
	}

	// Longest phrase first so "profit and loss report" beats "loss report".
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	for i, p := range phrases {
		phrases[i] = regexp.QuoteMeta(p)
	}
	reportRE = regexp.MustCompile(`\b(` + strings.Join(phrases, "|") + `)\b`)
}

// matchReportPhrase finds a known report phrase in the utterance and
// returns its canonical report name, or "" when none occurs.
func matchReportPhrase(utterance string) string {
	reportOnce.Do(compileReportMatcher)
	m := reportRE.FindStringSubmatch(utterance)
	if m == nil {
		return ""
	}
	return reportByAlias[m[1]]
}
