package views

// Error page types
const (
	ErrorRecipeNotFound = "recipe-not-found"
	ErrorAPI            = "api-error"
	ErrorNetwork        = "network-error"
	ErrorDonation       = "donation-error"
)

const defaultErrorMessage = "Something went wrong. Please try again."

var errorMessages = map[string]string{
	ErrorRecipeNotFound: "The recipe you are looking for could not be found. It may have been removed or the ID is invalid.",
	ErrorAPI:            "We are experiencing issues connecting to our recipe database. Please try again later.",
	ErrorNetwork:        "Network connection error. Please check your internet connection and try again.",
	ErrorDonation:       "Unable to load donation information. Please try again later.",
}

// ErrorView is the error page
type ErrorView struct {
	Message string
	Details string
}

// BuildErrorView picks the canned message for known types, else the supplied message
func BuildErrorView(errType, message, details string) ErrorView {
	msg, ok := errorMessages[errType]
	if !ok {
		msg = message
	}
	if msg == "" {
		msg = defaultErrorMessage
	}
	return ErrorView{Message: msg, Details: details}
}
