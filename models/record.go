package models

// Field keys for list records. The keys double as the JSON column names in
// the output files, so they keep the human-readable form.
const (
	FieldName      = "Company Name"
	FieldLinkedin  = "Company Linkedin Url"
	FieldHyperlink = "Company Hyperlink"
	FieldWebsite   = "Company Website URL"
	FieldRevenue   = "Revenue"
	FieldFunding   = "Funding"
	FieldGrowth    = "Growth"
	FieldFounder   = "Founder Name"
	FieldLocation  = "Location"
	FieldIndustry  = "Industry"
)

// Field keys contributed by profile pages.
const (
	FieldEmployeeCount = "employee_count"
	FieldCEO           = "ceo_name"
	FieldFoundedYear   = "founded_year"
	FieldDescription   = "description"
)

// Record is one company row: a mapping of named fields to values. Fields
// that could not be extracted are simply absent. Values are strings except
// FieldEmployeeCount, which is an int.
type Record map[string]any

// Name returns the company name, or "" if it was never extracted.
func (r Record) Name() string {
	return r.str(FieldName)
}

// ProfileURL returns the company detail-page link, or "".
func (r Record) ProfileURL() string {
	return r.str(FieldHyperlink)
}

func (r Record) str(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Merge returns a new record holding the union of r and profile. On key
// collision the profile value wins; keys absent from the profile keep the
// value from r.
func (r Record) Merge(profile Record) Record {
	merged := make(Record, len(r)+len(profile))
	for k, v := range r {
		merged[k] = v
	}
	for k, v := range profile {
		merged[k] = v
	}
	return merged
}
