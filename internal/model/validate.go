package model

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// ValidateDraft applies the form-layer rules to a contract before it is
// submitted. The codec and the store accept anything; out-of-range values
// already present in the sheet still decode.
func ValidateDraft(c Contract) error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.CUI, validation.Required, validation.By(notBlank)),
		validation.Field(&c.ContractType, validation.Required, validation.By(notBlank)),
		validation.Field(&c.PackageName, validation.Required, validation.By(notBlank)),
		validation.Field(&c.Contractor, validation.Required, validation.By(notBlank)),
		validation.Field(&c.EducationalInstitution, validation.Required, validation.By(notBlank)),
		validation.Field(&c.MontoContratoOriginal, validation.Min(0.0)),
		validation.Field(&c.MontoContratoActualizado, validation.Min(0.0)),
		validation.Field(&c.AvanceEjecucion, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&c.StartDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&c.EndDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&c.EnlaceContratoAdendas, validation.By(looksLikeURL)),
		validation.Field(&c.EnlaceDocumentosValorizaciones, validation.By(looksLikeURL)),
		validation.Field(&c.EnlaceGarantiasReportes, validation.By(looksLikeURL)),
	); err != nil {
		return err
	}
	if c.EndDate < c.StartDate {
		return validation.Errors{"endDate": errors.New("must not be before startDate")}
	}
	return nil
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

// Link fields are optional and often pasted without a scheme.
func looksLikeURL(value interface{}) error {
	s, _ := value.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !schemeRe.MatchString(s) {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || strings.ContainsAny(u.Host, " ") {
		return errors.New("must be a valid URL")
	}
	return nil
}
