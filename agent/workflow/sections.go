package workflow

// Section is one stage of the intake questionnaire. Sections form a fixed
// singly-linked progression: Next is empty only on the terminal review
// section. Keywords are scanned in declaration order against the assistant's
// latest reply; the first hit completes the section.
type Section struct {
	Name           string
	Keywords       []string
	Next           string
	ExpectedFields []string
}

const (
	SectionClientInformation        = "CLIENT_INFORMATION"
	SectionMaritalStatus            = "MARITAL_STATUS"
	SectionFamilyInformation        = "FAMILY_INFORMATION"
	SectionAssets                   = "ASSETS"
	SectionDistributionOfAssets     = "DISTRIBUTION_OF_ASSETS"
	SectionGuardianship             = "GUARDIANSHIP"
	SectionExecutorAppointment      = "EXECUTOR_APPOINTMENT"
	SectionAdditionalConsiderations = "ADDITIONAL_CONSIDERATIONS"
	SectionReviewAndCompletion      = "REVIEW_AND_COMPLETION"
)

var sections = []Section{
	{
		Name:           SectionClientInformation,
		Keywords:       []string{"marital", "married", "single", "divorced", "widowed"},
		Next:           SectionMaritalStatus,
		ExpectedFields: []string{"full_name", "gender", "dob", "aka", "city", "state", "email"},
	},
	{
		Name:           SectionMaritalStatus,
		Keywords:       []string{"children", "dependents", "family"},
		Next:           SectionFamilyInformation,
		ExpectedFields: []string{"marital_status", "dom", "spouse_full_name", "spouse_aka", "spouse_dob"},
	},
	{
		Name:           SectionFamilyInformation,
		Keywords:       []string{"assets", "property", "accounts", "investments"},
		Next:           SectionAssets,
		ExpectedFields: []string{"has_children", "children"},
	},
	{
		Name:     SectionAssets,
		Keywords: []string{"beneficiaries", "inherit", "distribute", "bequest"},
		Next:     SectionDistributionOfAssets,
	},
	{
		Name:     SectionDistributionOfAssets,
		Keywords: []string{"guardian", "minor", "care for children"},
		Next:     SectionGuardianship,
		ExpectedFields: []string{
			"has_specific_gifts", "specific_gifts",
			"residuary_distribution", "residuary_named_beneficiaries",
		},
	},
	{
		Name:           SectionGuardianship,
		Keywords:       []string{"executor", "personal representative", "administer"},
		Next:           SectionExecutorAppointment,
		ExpectedFields: []string{"has_guardians", "guardians"},
	},
	{
		Name:     SectionExecutorAppointment,
		Keywords: []string{"funeral", "burial", "charitable", "donation", "pets", "digital"},
		Next:     SectionAdditionalConsiderations,
		ExpectedFields: []string{
			"after_death_primary_name", "after_death_has_alternates", "after_death_alternates",
			"incapacity_primary_name", "incapacity_has_alternates", "incapacity_alternates",
			"healthcare_primary_name", "healthcare_has_alternates", "healthcare_alternates",
		},
	},
	{
		Name:     SectionAdditionalConsiderations,
		Keywords: []string{"review", "complete", "finalize", "summary"},
		Next:     SectionReviewAndCompletion,
		ExpectedFields: []string{
			"has_pet_provisions", "pets", "pets_caretaker", "pets_care_amount",
			"maintain_in_home", "remains_preference",
		},
	},
	{
		Name: SectionReviewAndCompletion,
	},
}

var sectionIndex = func() map[string]Section {
	idx := make(map[string]Section, len(sections))
	for _, s := range sections {
		idx[s.Name] = s
	}
	return idx
}()

// FirstSection is the entry point of every new session.
func FirstSection() string {
	return sections[0].Name
}

// SectionNames returns every section name in progression order.
func SectionNames() []string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
	}
	return names
}

// LookupSection returns the section definition for a name.
func LookupSection(name string) (Section, bool) {
	s, ok := sectionIndex[name]
	return s, ok
}
