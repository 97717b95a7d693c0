package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/noah-isme/formdesk-api/internal/models"
)

type submissionAppender interface {
	Append(ctx context.Context, sub *models.Submission) error
}

// Seed appends the given submissions, skipping ids that already exist. It returns how many
// records were inserted.
func Seed(ctx context.Context, store submissionAppender, subs []models.Submission) (int, error) {
	inserted := 0
	for i := range subs {
		sub := subs[i].Clone()
		if err := store.Append(ctx, sub); err != nil {
			if errors.Is(err, ErrSubmissionExists) {
				continue
			}
			return inserted, fmt.Errorf("seed submission %s: %w", sub.ID, err)
		}
		inserted++
	}
	return inserted, nil
}

func ts(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		panic(err)
	}
	return t
}

func reviewed(by, at string) (*string, *time.Time) {
	t := ts(at)
	return &by, &t
}

func demoSubmission(id string, formType models.FormType, account, submittedAt, comments, by, at string, data models.FormData) models.Submission {
	updatedBy, updatedAt := reviewed(by, at)
	return models.Submission{
		ID:               id,
		FormType:         formType,
		AccountNumber:    account,
		SubmittedAt:      ts(submittedAt),
		FormData:         data,
		OfficialComments: comments,
		LastUpdatedBy:    updatedBy,
		LastUpdatedAt:    updatedAt,
	}
}

// DemoSubmissions returns ten reviewed records across four accounts, used when SEED_DEMO_DATA is set.
func DemoSubmissions() []models.Submission {
	return []models.Submission{
		demoSubmission("sub_001", models.FormStatementOfAccount, "1234567890", "2024-01-25T10:30:00Z",
			"Statement processed and sent to customer via email. Customer contacted for confirmation.",
			"System Administrator", "2024-01-25T14:30:00Z",
			models.FormData{"accountName": "John Doe", "accountNumber": "1234567890", "dateFrom": "2024-01-01", "dateTo": "2024-01-31", "purpose": "Embassy", "authorization": true, "signature": "John Doe"}),
		demoSubmission("sub_002", models.FormEDispute, "1234567890", "2024-01-24T09:15:00Z",
			"Dispute investigated. Transaction reversed successfully. Customer refunded within 24 hours. Case closed.",
			"Branch Manager", "2024-01-24T16:45:00Z",
			models.FormData{"branch": "Victoria Island", "name": "John Doe", "accountNumber": "1234567890", "phone": "08012345678", "email": "john.doe@email.com", "eProduct": "OnePay", "disputeForm": "Funds Transfer", "transactionDate": "2024-01-20", "transactionTime": "14:30", "location": "ATM - Victoria Island Branch", "amount": "50000", "authorization": true, "signature": "John Doe"}),
		demoSubmission("sub_003", models.FormChequeRequisition, "1234567890", "2024-01-23T16:20:00Z",
			"Cheque book ready for collection. Customer notified via SMS and email. Collection deadline: March 23, 2024.",
			"System Administrator", "2024-01-24T10:00:00Z",
			models.FormData{"branch": "Victoria Island", "accountName": "John Doe", "accountNumber": "1234567890", "accountType": "Savings", "chequeLeaves": "50", "signature": "John Doe"}),
		demoSubmission("sub_004", models.FormAccountReactivation, "9876543210", "2024-01-22T11:45:00Z",
			"Account reactivation completed. All compliance requirements met. Account now active.",
			"Branch Manager", "2024-01-23T09:30:00Z",
			models.FormData{"accountNumber": "9876543210", "branch": "Lagos Island", "accountName": "Jane Smith", "address": "123 Lagos Street, Lagos Island, Lagos State", "phone": "08098765432", "email": "jane.smith@email.com", "requestType": "reactivation", "bvn": "12345678901", "signature": "Jane Smith"}),
		demoSubmission("sub_005", models.FormEChannelEnrolment, "1234567890", "2024-01-21T14:10:00Z",
			"Card production initiated. SMS and email alerts activated. Mobile banking enrollment completed. PIN sent via SMS.",
			"System Administrator", "2024-01-22T08:15:00Z",
			models.FormData{"cardRequest": "new", "cardType": "Debit", "cardScheme": "MasterCard", "currency": "NGN", "requestReason": "New Account", "smsAlert": true, "emailAlert": true, "smsNumber": "08012345678", "emailAddress": "john.doe@email.com", "mobileBanking": true, "signature": "John Doe"}),
		demoSubmission("sub_006", models.FormStatementOfAccount, "9876543210", "2024-01-20T08:45:00Z",
			"Statement generated and emailed to customer. Hard copy also prepared for collection.",
			"Branch Manager", "2024-01-20T15:20:00Z",
			models.FormData{"accountName": "Jane Smith", "accountNumber": "9876543210", "dateFrom": "2023-12-01", "dateTo": "2023-12-31", "purpose": "Reconciliation", "authorization": true, "signature": "Jane Smith"}),
		demoSubmission("sub_007", models.FormEDispute, "5555666677", "2024-01-19T13:25:00Z",
			"Airtime recharge dispute resolved. Incorrect recharge reversed. Customer advised to double-check numbers.",
			"Customer Service Rep", "2024-01-19T17:30:00Z",
			models.FormData{"branch": "Ikeja", "name": "Michael Johnson", "accountNumber": "5555666677", "phone": "08055566677", "email": "michael.johnson@email.com", "eProduct": "USSD", "disputeForm": "Airtime Recharge", "transactionDate": "2024-01-18", "amount": "2000", "authorization": true, "signature": "Michael Johnson"}),
		demoSubmission("sub_008", models.FormChequeRequisition, "5555666677", "2024-01-18T12:10:00Z",
			"Cheque book processed. Ready for collection at Ikeja branch. Customer notified.",
			"Branch Officer", "2024-01-19T09:15:00Z",
			models.FormData{"branch": "Ikeja", "accountName": "Michael Johnson", "accountNumber": "5555666677", "accountType": "Current", "chequeLeaves": "100", "signature": "Michael Johnson"}),
		demoSubmission("sub_009", models.FormEChannelEnrolment, "7777888899", "2024-01-17T15:30:00Z",
			"Lost card blocked successfully. New card issued and dispatched. Token request processed. PIN reset completed.",
			"Card Services Team", "2024-01-18T11:45:00Z",
			models.FormData{"cardRequest": "reissue", "cardType": "Credit", "cardScheme": "Visa", "currency": "USD", "requestReason": "Lost", "tokenRequest": true, "tokenType": "Premium", "smsNumber": "08077788899", "emailAddress": "sarah.williams@email.com", "signature": "Sarah Williams"}),
		demoSubmission("sub_010", models.FormAccountReactivation, "7777888899", "2024-01-16T10:20:00Z",
			"Asset reclamation request approved. Dormant funds of ₦125,000 transferred to active account. Process completed.",
			"Compliance Officer", "2024-01-17T14:25:00Z",
			models.FormData{"accountNumber": "7777888899", "branch": "Abuja", "accountName": "Sarah Williams", "address": "456 Wuse II, Abuja, FCT", "phone": "08077788899", "email": "sarah.williams@email.com", "requestType": "asset-reclamation", "bvn": "55566677788", "signature": "Sarah Williams"}),
	}
}
