package schema

import "fmt"

// Shape describes what kind of value a field holds.
type Shape int

const (
	ShapeScalar Shape = iota
	ShapeList
)

// FieldSpec binds a canonical field name to the dotted-path alias used at the
// system boundary. The table is static and loaded once; both names and
// aliases must be unique across all specs.
type FieldSpec struct {
	Name  string
	Alias string
	Shape Shape
}

// Default returns the zero value stored for an unanswered field.
func (f FieldSpec) Default() any {
	if f.Shape == ShapeList {
		return []any{}
	}
	return ""
}

// Fields is the full vocabulary of answerable estate-planning questions.
var Fields = []FieldSpec{
	// Client information
	{Name: "full_name", Alias: "client.fullName"},
	{Name: "gender", Alias: "client.gender"},
	{Name: "dob", Alias: "client.DOB"},
	{Name: "aka", Alias: "client.AKA"},
	{Name: "city", Alias: "client.address.city"},
	{Name: "state", Alias: "client.address.state"},
	{Name: "email", Alias: "client.email"},

	// Marriage information
	{Name: "marital_status", Alias: "client.maritalStatus"},
	{Name: "dom", Alias: "client.DOM"},
	{Name: "spouse_full_name", Alias: "spouse.fullName"},
	{Name: "spouse_aka", Alias: "spouse.AKA"},
	{Name: "spouse_dob", Alias: "spouse.DOB"},

	// Children
	{Name: "has_children", Alias: "client.hasChildren"},
	{Name: "children", Alias: "client.children", Shape: ShapeList},

	// Representatives
	{Name: "incapacity_primary_name", Alias: "representatives.incapacity.primary.fullName"},
	{Name: "incapacity_has_alternates", Alias: "representatives.incapacity.hasAlternates"},
	{Name: "incapacity_alternates", Alias: "representatives.incapacity.alternates", Shape: ShapeList},
	{Name: "after_death_primary_name", Alias: "representatives.afterDeath.primary.fullName"},
	{Name: "after_death_has_alternates", Alias: "representatives.afterDeath.hasAlternates"},
	{Name: "after_death_alternates", Alias: "representatives.afterDeath.alternates", Shape: ShapeList},
	{Name: "healthcare_primary_name", Alias: "representatives.healthcare.primary.fullName"},
	{Name: "healthcare_has_alternates", Alias: "representatives.healthcare.hasAlternates"},
	{Name: "healthcare_alternates", Alias: "representatives.healthcare.alternates", Shape: ShapeList},

	// Guardians
	{Name: "has_guardians", Alias: "hasGuardians"},
	{Name: "guardians", Alias: "guardians", Shape: ShapeList},

	// Pets
	{Name: "has_pet_provisions", Alias: "client.hasPetProvisions"},
	{Name: "pets", Alias: "client.pets", Shape: ShapeList},
	{Name: "pets_caretaker", Alias: "client.petsCaretaker"},
	{Name: "pets_care_amount", Alias: "client.petsCareAmount"},

	// End of life preferences
	{Name: "maintain_in_home", Alias: "maintainInHome"},
	{Name: "remains_preference", Alias: "remainsPreference"},

	// Distribution
	{Name: "has_specific_gifts", Alias: "hasSpecificGifts"},
	{Name: "specific_gifts", Alias: "specificGifts", Shape: ShapeList},
	{Name: "residuary_distribution", Alias: "residuaryDistribution"},
	{Name: "residuary_named_beneficiaries", Alias: "residuaryNamedBeneficiaries", Shape: ShapeList},
}

var (
	byName  map[string]FieldSpec
	byAlias map[string]string
)

func init() {
	byName = make(map[string]FieldSpec, len(Fields))
	byAlias = make(map[string]string, len(Fields))
	for _, f := range Fields {
		if _, dup := byName[f.Name]; dup {
			panic(fmt.Sprintf("schema: duplicate canonical field name %q", f.Name))
		}
		if _, dup := byAlias[f.Alias]; dup {
			panic(fmt.Sprintf("schema: duplicate field alias %q", f.Alias))
		}
		byName[f.Name] = f
		byAlias[f.Alias] = f.Name
	}
}

// Lookup returns the spec for a canonical field name.
func Lookup(name string) (FieldSpec, bool) {
	f, ok := byName[name]
	return f, ok
}

// ResolveAlias maps a dotted-path alias back to its canonical field name.
// Note that not every alias contains a dot (e.g. "guardians").
func ResolveAlias(alias string) (string, bool) {
	name, ok := byAlias[alias]
	return name, ok
}
