package user

// User is an account profile. Monetary output everywhere in the API is
// converted to the user's preferred Currency at read time.
type User struct {
	Id          int
	Uid         string
	Email       string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	Currency            string
	DateFormat          string
	Theme               string
	Language            string
	OnboardingCompleted bool
}
