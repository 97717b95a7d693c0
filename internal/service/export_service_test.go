package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/formdesk-api/internal/dto"
	"github.com/noah-isme/formdesk-api/internal/models"
	appErrors "github.com/noah-isme/formdesk-api/pkg/errors"
)

func newTestExport(t *testing.T, metrics *MetricsService, subs ...models.Submission) *ExportService {
	t.Helper()
	svc := NewExportService(seedStore(t, subs...), metrics, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC) }
	return svc
}

func TestExportServiceCSV(t *testing.T) {
	by := "admin"
	reviewedAt := time.Date(2024, 1, 5, 8, 30, 0, 0, time.UTC)
	metrics := NewMetricsService()
	svc := newTestExport(t, metrics,
		models.Submission{ID: "s1", AccountNumber: "1234567890", FormType: models.FormEDispute, SubmittedAt: at(1), OfficialComments: "refund, then close", LastUpdatedBy: &by, LastUpdatedAt: &reviewedAt},
		models.Submission{ID: "s2", AccountNumber: "1234567890", FormType: models.FormChequeRequisition, SubmittedAt: at(2)},
		models.Submission{ID: "x1", AccountNumber: "9999999999", SubmittedAt: at(3)},
	)

	res, err := svc.Export(context.Background(), adminClaims, dto.ExportQuery{AccountNumber: "1234567890"})
	require.NoError(t, err)
	assert.Equal(t, "submissions_1234567890_2024-03-09.csv", res.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", res.ContentType)
	assert.Equal(t, 2, res.Rows)

	records, err := csv.NewReader(strings.NewReader(string(res.Body))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportHeaders, records[0])
	assert.Equal(t, []string{"s2", string(models.FormChequeRequisition), "1234567890", "2024-01-02 12:00:00", "", "", ""}, records[1])
	assert.Equal(t, []string{"s1", string(models.FormEDispute), "1234567890", "2024-01-01 12:00:00", "refund, then close", "admin", "2024-01-05 08:30:00"}, records[2])

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.exportsTotal.WithLabelValues(ExportFormatCSV)))
}

func TestExportServicePDF(t *testing.T) {
	svc := newTestExport(t, nil, models.Submission{ID: "s1", AccountNumber: "A", SubmittedAt: at(1)})

	res, err := svc.Export(context.Background(), adminClaims, dto.ExportQuery{AccountNumber: "A", Format: "PDF"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, strings.HasSuffix(res.Filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(res.Body), "%PDF-"))
}

func TestExportServiceRejectsBadInput(t *testing.T) {
	svc := newTestExport(t, nil)

	_, err := svc.Export(context.Background(), adminClaims, dto.ExportQuery{AccountNumber: "A", Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	_, err = svc.Export(context.Background(), adminClaims, dto.ExportQuery{})
	require.Error(t, err)
	assert.Equal(t, "Account number is required", appErrors.FromError(err).Message)

	_, err = svc.Export(context.Background(), nil, dto.ExportQuery{AccountNumber: "A"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestExportServiceEmptyAccountStillRendersHeader(t *testing.T) {
	svc := newTestExport(t, nil)

	res, err := svc.Export(context.Background(), adminClaims, dto.ExportQuery{AccountNumber: "0000000000"})
	require.NoError(t, err)
	assert.Zero(t, res.Rows)
	assert.Equal(t, strings.Join(exportHeaders, ",")+"\n", string(res.Body))
}

func TestExportServiceFilenameKeepsOnlySafeCharacters(t *testing.T) {
	account := "12\"; x=\r\n/../é"
	svc := newTestExport(t, nil, models.Submission{ID: "s1", AccountNumber: account, SubmittedAt: at(1)})

	res, err := svc.Export(context.Background(), adminClaims, dto.ExportQuery{AccountNumber: account})
	require.NoError(t, err)
	assert.Equal(t, "submissions_12___x_________2024-03-09.csv", res.Filename)
	assert.Equal(t, 1, res.Rows)
}
