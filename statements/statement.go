// Package statements renders monthly payment statements as PDF and hosts
// them on Cloudinary.
package statements

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/anjiri1684/torah_tutor/logger"
	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const folder = "torah_tutor_statements"

//go:embed templates/statement.html
var templateFS embed.FS

var statementTmpl = template.Must(template.ParseFS(templateFS, "templates/statement.html"))

type Renderer struct {
	cld     *cloudinary.Cloudinary
	timeout time.Duration
}

var _ services.StatementRenderer = (*Renderer)(nil)

func New(cloudinaryURL string) (*Renderer, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Renderer{cld: cld, timeout: 30 * time.Second}, nil
}

func (r *Renderer) Render(p models.MonthlyTeacherPayment, teacher models.Profile) (string, error) {
	html, err := StatementHTML(p, teacher)
	if err != nil {
		return "", fmt.Errorf("render statement html: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	pdf, err := printPDF(ctx, html)
	if err != nil {
		return "", fmt.Errorf("print statement pdf: %w", err)
	}

	res, err := r.cld.Upload.Upload(ctx, bytes.NewReader(pdf), uploader.UploadParams{
		PublicID:     fmt.Sprintf("%s_%s", p.TeacherID, p.Month),
		Folder:       folder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("upload statement: %w", err)
	}
	logger.Info().Str("payment_id", p.ID.String()).Str("url", res.SecureURL).Msg("statement uploaded")
	return res.SecureURL, nil
}

type statementData struct {
	PaymentID      string
	Month          string
	TeacherName    string
	TeacherEmail   string
	TotalHours     float64
	HourlyRate     string
	Gross          string
	TeacherAmount  string
	AdminAmount    string
	TeacherPercent string
	AdminPercent   string
	ProcessedAt    string
}

// StatementHTML fills the statement template from the stored payment. All
// figures come from the payment row as generated.
func StatementHTML(p models.MonthlyTeacherPayment, teacher models.Profile) (string, error) {
	data := statementData{
		PaymentID:      p.ID.String(),
		Month:          p.Month,
		TeacherName:    teacher.FullName,
		TeacherEmail:   teacher.Email,
		TotalHours:     p.TotalHours,
		HourlyRate:     money(p.HourlyRate),
		Gross:          money(p.GrossAmount),
		TeacherAmount:  money(p.TeacherAmount),
		AdminAmount:    money(p.AdminAmount),
		TeacherPercent: percent(p.TeacherShareBps),
		AdminPercent:   percent(p.AdminShareBps),
	}
	if p.ProcessedAt != nil {
		data.ProcessedAt = p.ProcessedAt.Format("January 2, 2006")
	}

	var buf bytes.Buffer
	if err := statementTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func money(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}

func percent(bps int) string {
	return fmt.Sprintf("%.2f%%", float64(bps)*100/rules.BasisPoints)
}

func printPDF(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	return pdf, err
}
