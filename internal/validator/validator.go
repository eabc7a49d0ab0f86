// Package validator holds the input rules for transactions and the contact
// form, and registers them as custom tags with Gin's binding engine.
package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"finboard/internal/models"
)

var (
	descriptionRegex = regexp.MustCompile(`^\S(?:.*\S)?$`)
	amountRegex      = regexp.MustCompile(`^(0|[1-9]\d*)(\.\d{1,2})?$`)
	dateRegex        = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	categoryRegex    = regexp.MustCompile(`^[A-Za-z]+(?:[ -][A-Za-z]+)*$`)

	nameRegex    = regexp.MustCompile(`^[a-zA-Z\s]{2,50}$`)
	emailRegex   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	messageRegex = regexp.MustCompile(`^.{10,500}$`)
)

// duplicateWordRegex needs a back-reference, which RE2 does not support.
var duplicateWordRegex = func() *regexp2.Regexp {
	re := regexp2.MustCompile(`\b(\w+)\s+\1\b`, regexp2.ECMAScript|regexp2.IgnoreCase)
	re.MatchTimeout = time.Second
	return re
}()

// Field names used in validation reports.
const (
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDate        = "date"
	FieldType        = "type"
	FieldCurrency    = "currency"
	FieldName        = "name"
	FieldEmail       = "email"
	FieldMessage     = "message"
)

// fieldMessages are the user-facing messages for each failing field.
var fieldMessages = map[string]string{
	FieldDescription: "Invalid description format",
	FieldAmount:      "Invalid amount format",
	FieldCategory:    "Invalid category format",
	FieldDate:        "Invalid date format (use YYYY-MM-DD)",
	FieldType:        "Type must be income or expense",
	FieldCurrency:    "Currency must be USD, EUR or RWF",
	FieldName:        "Name must be 2-50 letters",
	FieldEmail:       "Please enter a valid email address",
	FieldMessage:     "Message must be 10-500 characters",
}

// Message returns the user-facing message for a failing field.
func Message(field string) string {
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	return "Invalid " + field
}

// ValidateDescription reports whether s, once trimmed, is non-empty and has
// no immediately repeated word.
func ValidateDescription(s string) bool {
	trimmed := strings.TrimSpace(s)
	if !descriptionRegex.MatchString(trimmed) {
		return false
	}
	dup, err := duplicateWordRegex.MatchString(trimmed)
	if err != nil {
		return false
	}
	return !dup
}

// ValidateAmount reports whether s is a non-negative number with at most two
// fractional digits and no leading zeros.
func ValidateAmount(s string) bool {
	return amountRegex.MatchString(s)
}

// ValidateDate reports whether s looks like YYYY-MM-DD. Day numbers are not
// checked against the month length.
func ValidateDate(s string) bool {
	return dateRegex.MatchString(s)
}

// ValidateCategory reports whether s, once trimmed, is one or more
// alphabetic words joined by single spaces or hyphens.
func ValidateCategory(s string) bool {
	return categoryRegex.MatchString(strings.TrimSpace(s))
}

// ValidateType reports whether s names a transaction type.
func ValidateType(s string) bool {
	return models.TransactionType(s).Valid()
}

// ValidateName reports whether the trimmed contact name is 2-50 letters or spaces.
func ValidateName(s string) bool {
	return nameRegex.MatchString(strings.TrimSpace(s))
}

// ValidateEmail reports whether the trimmed input looks like an email address.
func ValidateEmail(s string) bool {
	return emailRegex.MatchString(strings.TrimSpace(s))
}

// ValidateMessage reports whether the trimmed contact message is 10-500 characters.
func ValidateMessage(s string) bool {
	return messageRegex.MatchString(strings.TrimSpace(s))
}

// TransactionInput is raw, untrimmed transaction form input.
type TransactionInput struct {
	Description string
	Amount      string
	Category    string
	Date        string
	Type        string
}

// CheckTransaction runs every transaction rule and returns the failing
// fields with their messages. A nil map means the input is valid.
func CheckTransaction(in TransactionInput) map[string]string {
	var failed map[string]string
	add := func(field string) {
		if failed == nil {
			failed = make(map[string]string)
		}
		failed[field] = Message(field)
	}

	if !ValidateDescription(in.Description) {
		add(FieldDescription)
	}
	if !ValidateAmount(in.Amount) {
		add(FieldAmount)
	}
	if !ValidateCategory(in.Category) {
		add(FieldCategory)
	}
	if !ValidateDate(in.Date) {
		add(FieldDate)
	}
	if !ValidateType(in.Type) {
		add(FieldType)
	}
	return failed
}

// ContactResult reports which contact form fields passed validation.
type ContactResult struct {
	Name    bool `json:"name"`
	Email   bool `json:"email"`
	Message bool `json:"message"`
}

// Valid reports whether every contact field passed.
func (r ContactResult) Valid() bool {
	return r.Name && r.Email && r.Message
}

// CheckContact validates the contact form fields.
func CheckContact(name, email, message string) ContactResult {
	return ContactResult{
		Name:    ValidateName(name),
		Email:   ValidateEmail(email),
		Message: ValidateMessage(message),
	}
}

// Register registers all custom validators with the Gin binding engine.
// Field names in validation errors follow the json or form tags.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("txn_description", stringRule(ValidateDescription))
		_ = v.RegisterValidation("txn_amount", stringRule(ValidateAmount))
		_ = v.RegisterValidation("txn_category", stringRule(ValidateCategory))
		_ = v.RegisterValidation("txn_date", stringRule(ValidateDate))
		_ = v.RegisterValidation("transaction_type", stringRule(ValidateType))
		_ = v.RegisterValidation("display_currency", validateDisplayCurrency)
	}
}

func stringRule(rule func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return rule(fl.Field().String())
	}
}

func validateDisplayCurrency(fl validator.FieldLevel) bool {
	return models.Currency(fl.Field().String()).Valid()
}

// fieldName reports fields by their json name, or their form name for
// query structs.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// FieldErrors converts binding validation errors into a per-field message
// map. It returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = Message(fe.Field())
	}
	return fields
}
