package logitrust

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"

	"github.com/NethermindEth/logitrust/pkg/logitrust/analysis"
)

const (
	pageTemplateName = "index.html"

	Disclaimer = "제공되는 정보는 AI 분석 결과이며 실무 데이터 보완이 필요합니다."

	resultHeadingFormat   = "📍 %s 분석 결과"
	rateLimitedMessage    = "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요."
	transientFaultMessage = "분석 서비스가 일시적으로 응답하지 않습니다. 잠시 후 다시 시도해 주세요."
	permanentFaultMessage = "분석 서비스 설정에 문제가 있습니다. 관리자에게 문의해 주세요."
	unknownErrorMessage   = "분석 중 알 수 없는 오류가 발생했습니다."
)

//go:embed templates/*.html
var templateFS embed.FS

var markdownPolicy = bluemonday.UGCPolicy()

type page struct {
	Place   string
	Warning string
	Error   string
	Result  *resultView
}

type resultView struct {
	Heading    string
	Body       template.HTML
	Disclaimer string
}

type errorKind string

const (
	errorKindValidation  errorKind = "validation"
	errorKindRateLimited errorKind = "rate_limited"
	errorKindTransient   errorKind = "transient"
	errorKindPermanent   errorKind = "permanent"
	errorKindUnknown     errorKind = "unknown"
)

type errorView struct {
	Status  int
	Kind    errorKind
	Message string
}

func parsePageTemplate() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

func newResultPage(result *Analysis) page {
	return page{
		Place: result.Place,
		Result: &resultView{
			Heading:    resultHeading(result.Place),
			Body:       renderMarkdown(result.Text),
			Disclaimer: Disclaimer,
		},
	}
}

func newErrorPage(place string, view errorView) page {
	p := page{Place: place}
	switch view.Kind {
	case errorKindValidation, errorKindRateLimited:
		p.Warning = view.Message
	default:
		p.Error = view.Message
	}
	return p
}

func resultHeading(place string) string {
	return fmt.Sprintf(resultHeadingFormat, place)
}

func renderMarkdown(text string) template.HTML {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.UseXHTML,
	})
	unsafe := blackfriday.Run([]byte(text), blackfriday.WithRenderer(renderer))
	return template.HTML(markdownPolicy.SanitizeBytes(unsafe))
}

func describeError(err error) errorView {
	var validationErr *ValidationError
	var fault *analysis.Fault

	switch {
	case errors.As(err, &validationErr):
		return errorView{Status: http.StatusBadRequest, Kind: errorKindValidation, Message: validationErr.Message}
	case errors.Is(err, ErrRateLimited):
		return errorView{Status: http.StatusTooManyRequests, Kind: errorKindRateLimited, Message: rateLimitedMessage}
	case errors.As(err, &fault) && fault.Transient():
		return errorView{Status: http.StatusServiceUnavailable, Kind: errorKindTransient, Message: transientFaultMessage}
	case errors.As(err, &fault):
		return errorView{Status: http.StatusBadGateway, Kind: errorKindPermanent, Message: permanentFaultMessage}
	default:
		return errorView{Status: http.StatusInternalServerError, Kind: errorKindUnknown, Message: unknownErrorMessage}
	}
}
