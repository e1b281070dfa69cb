package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobscout/search-service/internal/model"
)

// The source publishes two markup revisions for several fields ("new" versus
// aged postings). Each field is extracted through an ordered rule list: the
// primary selector first, then the documented alternate. A field whose rules
// all miss is simply left empty.

// rule extracts an optional value from a markup node.
type rule func(*goquery.Selection) (string, bool)

// text returns a rule yielding the trimmed text of the first match.
func text(selector string) rule {
	return func(s *goquery.Selection) (string, bool) {
		el := s.Find(selector).First()
		if el.Length() == 0 {
			return "", false
		}
		v := strings.TrimSpace(el.Text())
		if v == "" {
			return "", false
		}
		return v, true
	}
}

// attr returns a rule yielding the named attribute of the first match.
func attr(selector, name string) rule {
	return func(s *goquery.Selection) (string, bool) {
		v, ok := s.Find(selector).First().Attr(name)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(v), v != ""
	}
}

// firstMatch evaluates rules in order and returns the first hit.
func firstMatch(s *goquery.Selection, rules []rule) string {
	for _, r := range rules {
		if v, ok := r(s); ok {
			return v
		}
	}
	return ""
}

// ── Listing page ───────────────────────────────────────────────────────────

var (
	listingTitleRules = []rule{
		text("h3.base-search-card__title"),
		text("span.sr-only"),
	}
	listingCompanyRules  = []rule{text("h4.base-search-card__subtitle")}
	listingLocationRules = []rule{text("span.job-search-card__location")}
	listingBenefitsRules = []rule{text("span.job-posting-benefits__text")}
	listingDateAttrRules = []rule{
		attr("time.job-search-card__listdate", "datetime"),
		attr("time.job-search-card__listdate--new", "datetime"),
	}
	listingDateTextRules = []rule{
		text("time.job-search-card__listdate"),
		text("time.job-search-card__listdate--new"),
	}
)

// parseSummary extracts one JobSummary from a listing <li>. The identifier is
// mandatory; everything else degrades to an empty field.
func parseSummary(item *goquery.Selection) (model.JobSummary, error) {
	card := item.Find("div.base-card").First()
	if card.Length() == 0 {
		card = item.Find("a.base-card").First()
	}
	if card.Length() == 0 {
		return model.JobSummary{}, &ParseError{Reason: "no base-card element"}
	}

	urn, ok := card.Attr("data-entity-urn")
	if !ok {
		return model.JobSummary{}, &ParseError{Reason: "missing data-entity-urn attribute"}
	}
	parts := strings.Split(urn, ":")
	if len(parts) < 4 {
		return model.JobSummary{}, &ParseError{Reason: fmt.Sprintf("malformed entity urn %q", urn)}
	}
	id, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return model.JobSummary{}, &ParseError{Reason: fmt.Sprintf("non-numeric job id in urn %q", urn)}
	}

	return model.JobSummary{
		ID:              id,
		Title:           firstMatch(card, listingTitleRules),
		Company:         firstMatch(card, listingCompanyRules),
		Location:        firstMatch(card, listingLocationRules),
		Benefits:        firstMatch(card, listingBenefitsRules),
		RawDatePosted:   firstMatch(card, listingDateAttrRules),
		TimeSincePosted: firstMatch(card, listingDateTextRules),
	}, nil
}

// parseListing splits a listing page into items and extracts each one.
// Items missing their identifier are returned as errors, not summaries.
func parseListing(doc *goquery.Document) ([]model.JobSummary, []error) {
	var (
		summaries []model.JobSummary
		dropped   []error
	)
	doc.Find("li").Each(func(_ int, item *goquery.Selection) {
		s, err := parseSummary(item)
		if err != nil {
			dropped = append(dropped, err)
			return
		}
		summaries = append(summaries, s)
	})
	return summaries, dropped
}

// ── Detail page ────────────────────────────────────────────────────────────

var (
	detailTitleRules    = []rule{text("h2.top-card-layout__title")}
	detailCompanyRules  = []rule{text("a.topcard__org-name-link.topcard__flavor--black-link")}
	detailLocationRules = []rule{text("span.topcard__flavor.topcard__flavor--bullet")}
	detailSalaryRules   = []rule{text("div.salary.compensation__salary")}
	detailAgeRules      = []rule{
		text("span.posted-time-ago__text.topcard__flavor--metadata"),
		text("span.posted-time-ago__text.posted-time-ago__text--new.topcard__flavor--metadata"),
	}
	detailApplicantsRules = []rule{
		text("span.num-applicants__caption.topcard__flavor--metadata.topcard__flavor--bullet"),
		text("figcaption.num-applicants__caption"),
	}
	detailDescriptionRules = []rule{text("div.show-more-less-html__markup")}
)

// parseCriteria walks the job-criteria list into an open string map. Returns
// nil when the section is absent or yields nothing.
func parseCriteria(doc *goquery.Document) map[string]string {
	var criteria map[string]string
	doc.Find("li.description__job-criteria-item").Each(func(_ int, item *goquery.Selection) {
		header := strings.TrimSpace(item.Find("h3.description__job-criteria-subheader").First().Text())
		value := strings.TrimSpace(item.Find("span.description__job-criteria-text").First().Text())
		if header == "" || value == "" {
			return
		}
		if criteria == nil {
			criteria = make(map[string]string)
		}
		key := strings.ReplaceAll(strings.ToLower(header), " ", "_")
		criteria[key] = value
	})
	return criteria
}

// parseDetail extracts the JobDetail field mapping from a detail page.
// Every field is optional here; the identifier is supplied by the caller.
func parseDetail(doc *goquery.Document) model.JobDetail {
	root := doc.Selection
	return model.JobDetail{
		Title:           firstMatch(root, detailTitleRules),
		Company:         firstMatch(root, detailCompanyRules),
		Location:        firstMatch(root, detailLocationRules),
		SalaryRange:     firstMatch(root, detailSalaryRules),
		Criteria:        parseCriteria(doc),
		TimeSincePosted: firstMatch(root, detailAgeRules),
		NumApplicants:   firstMatch(root, detailApplicantsRules),
		Description:     firstMatch(root, detailDescriptionRules),
	}
}
