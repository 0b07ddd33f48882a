package core

// Genders
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Terms
const (
	Term1 = "Term 1"
	Term2 = "Term 2"
	Term3 = "Term 3"
)

var (
	Genders = []string{GenderMale, GenderFemale}
	Terms   = []string{Term1, Term2, Term3}

	// Classes are ordered from the youngest (early childhood) to the oldest students.
	Classes = []string{
		"Play Group", "PP1", "PP2", "ECD",
		"Standard 1", "Standard 2", "Standard 3", "Standard 4",
		"Standard 5", "Standard 6", "Standard 7", "Standard 8",
	}

	// early childhood development classes
	ECDClasses = []string{"Play Group", "PP1", "PP2", "ECD"}
)

// IsECDClass reports whether class belongs to the early childhood phase.
func IsECDClass(class string) bool {
	return contains(ECDClasses, class)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
