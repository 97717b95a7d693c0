package models

// Field patterns shared by the customer forms. The API does not enforce them on intake;
// they are published so form clients validate consistently.
const (
	PatternAccountNumber = `^\d{10}$`
	PatternPhone         = `^\d{11}$`
	PatternEmail         = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
)

// FormField describes one input of a catalog form.
type FormField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
	Pattern  string `json:"pattern,omitempty"`
	Message  string `json:"message,omitempty"`
}

// FormDefinition is a catalog entry.
type FormDefinition struct {
	Key         string      `json:"key"`
	Type        FormType    `json:"formType"`
	Description string      `json:"description"`
	Fields      []FormField `json:"fields"`
}

func required(name, label string) FormField {
	return FormField{Name: name, Label: label, Required: true}
}

func accountNumberField() FormField {
	return FormField{Name: "accountNumber", Label: "Account Number", Required: true, Pattern: PatternAccountNumber, Message: "Account number must be 10 digits"}
}

func phoneField(name string, required bool) FormField {
	return FormField{Name: name, Label: "Phone Number", Required: required, Pattern: PatternPhone, Message: "Phone number must be 11 digits"}
}

func emailField(name string, required bool) FormField {
	return FormField{Name: name, Label: "Email", Required: required, Pattern: PatternEmail, Message: "Invalid email format"}
}

// FormCatalog returns the static set of bank forms.
func FormCatalog() []FormDefinition {
	return []FormDefinition{
		{
			Key:         "statement-of-account",
			Type:        FormStatementOfAccount,
			Description: "Request account statements for your records",
			Fields: []FormField{
				required("accountName", "Account Name"),
				accountNumberField(),
				required("dateFrom", "Start Date"),
				required("dateTo", "End Date"),
				required("purpose", "Purpose"),
				required("authorization", "Authorization"),
				required("signature", "Signature"),
			},
		},
		{
			Key:         "e-dispute",
			Type:        FormEDispute,
			Description: "Report and dispute electronic transaction issues",
			Fields: []FormField{
				required("branch", "Branch"),
				required("name", "Name"),
				accountNumberField(),
				phoneField("phone", true),
				emailField("email", true),
				required("eProduct", "E-Product"),
				required("disputeForm", "Form of Dispute"),
				required("transactionDate", "Transaction Date"),
				required("amount", "Amount"),
				required("authorization", "Authorization"),
				required("signature", "Signature"),
			},
		},
		{
			Key:         "account-reactivation",
			Type:        FormAccountReactivation,
			Description: "Reactivate dormant accounts or reclaim assets",
			Fields: []FormField{
				accountNumberField(),
				required("branch", "Branch"),
				required("accountName", "Account Name"),
				required("address", "Address"),
				phoneField("phone", true),
				emailField("email", true),
				required("requestType", "Request Type"),
				required("bvn", "BVN"),
				required("signature", "Signature"),
			},
		},
		{
			Key:         "cheque-requisition",
			Type:        FormChequeRequisition,
			Description: "Request new cheque books for your account",
			Fields: []FormField{
				required("branch", "Branch"),
				required("accountName", "Account Name"),
				accountNumberField(),
				required("accountType", "Account Type"),
				required("chequeLeaves", "Number of Cheque Leaves"),
				required("signature", "Signature"),
			},
		},
		{
			Key:         "e-channel-enrolment",
			Type:        FormEChannelEnrolment,
			Description: "Enroll in digital banking services and enhance transaction limits",
			Fields: []FormField{
				required("cardRequest", "Card Request Type"),
				required("cardType", "Card Type"),
				required("cardScheme", "Card Scheme"),
				required("currency", "Currency"),
				required("requestReason", "Request Reason"),
				phoneField("smsNumber", false),
				emailField("emailAddress", false),
				required("signature", "Signature"),
			},
		},
	}
}
