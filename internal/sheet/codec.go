package sheet

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nurpe/contratos-service/internal/model"
)

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Layouts accepted for date cells, tried in order. Anything else that is not
// already an ISO date degrades to the empty string.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
}

// Codec converts between raw sheet rows and contract records. Decoding is
// total: malformed cells degrade to zero or empty-string defaults, never to
// an error. Both directions are driven by the live header row so column
// reordering in the sheet does not break the mapping.
type Codec struct {
	bindings  []Binding
	byHeader  map[string]string // normalized external label -> internal key
	cuiHeader string
}

func NewCodec(bindings []Binding) *Codec {
	c := &Codec{
		bindings: bindings,
		byHeader: make(map[string]string, len(bindings)),
	}
	for _, b := range bindings {
		c.byHeader[NormalizeHeader(b.Header)] = b.Key
		if b.Key == KeyCUI {
			c.cuiHeader = b.Header
		}
	}
	return c
}

// KeyFor resolves a live sheet header to its internal key.
func (c *Codec) KeyFor(header string) (string, bool) {
	key, ok := c.byHeader[NormalizeHeader(header)]
	return key, ok
}

// CUIHeader returns the external column label bound to the identifying key.
func (c *Codec) CUIHeader() string {
	return c.cuiHeader
}

// HeaderRow returns the canonical header row in mapping order, used when
// bootstrapping an empty workbook.
func (c *Codec) HeaderRow() []string {
	headers := make([]string, len(c.bindings))
	for i, b := range c.bindings {
		headers[i] = b.Header
	}
	return headers
}

// Decode maps a raw row onto a contract using header positions. Unmapped
// columns are ignored; rows shorter than the header row read as empty cells.
func (c *Codec) Decode(row []string, headers []string) model.Contract {
	var out model.Contract
	for i, header := range headers {
		key, ok := c.byHeader[NormalizeHeader(header)]
		if !ok {
			continue
		}
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		setField(&out, key, strings.TrimSpace(cell))
	}

	out.ID = out.CUI
	if out.AvanceEjecucion >= 100 {
		out.Status = model.ContractStatusCompleted
	} else {
		out.Status = model.ContractStatusActive
	}
	out.TotalAmount = out.MontoContratoActualizado
	out.ExecutionProgress = out.AvanceEjecucion
	return out
}

// Encode emits one cell per live header, in header order. Unmapped columns
// stay blank so foreign columns in the sheet are never clobbered with data.
func (c *Codec) Encode(contract model.Contract, headers []string) []string {
	row := make([]string, len(headers))
	for i, header := range headers {
		if key, ok := c.byHeader[NormalizeHeader(header)]; ok {
			row[i] = fieldValue(contract, key)
		}
	}
	return row
}

func setField(c *model.Contract, key, value string) {
	switch key {
	case KeyContractType:
		c.ContractType = value
	case KeyPackageName:
		c.PackageName = value
	case KeyContractor:
		c.Contractor = value
	case KeyCUI:
		c.CUI = value
	case KeyEducationalInstitution:
		c.EducationalInstitution = value
	case KeyMontoContratoOriginal:
		c.MontoContratoOriginal = parseNumber(value)
	case KeyMontoContratoActualizado:
		c.MontoContratoActualizado = parseNumber(value)
	case KeyPeriodoVigente:
		c.PeriodoVigente = value
	case KeyStartDate:
		c.StartDate = formatDate(value)
	case KeyEndDate:
		c.EndDate = formatDate(value)
	case KeyEnlaceContratoAdendas:
		c.EnlaceContratoAdendas = value
	case KeyAvanceEjecucion:
		c.AvanceEjecucion = parseNumber(value)
	case KeyUltimaValorizacion:
		c.UltimaValorizacion = formatDate(value)
	case KeyPeriodoPago:
		c.PeriodoPago = value
	case KeyDocumentoInternoConformidad:
		c.DocumentoInternoConformidad = value
	case KeyFactura:
		c.Factura = value
	case KeyFechaPresentacionFactura:
		c.FechaPresentacionFactura = formatDate(value)
	case KeyFechaVencimientoPago:
		c.FechaVencimientoPago = formatDate(value)
	case KeyESinad:
		c.ESinad = value
	case KeyEnlaceDocumentosValorizaciones:
		c.EnlaceDocumentosValorizaciones = value
	case KeyGarantiasFielCumplimiento:
		c.GarantiasFielCumplimiento = value
	case KeyPorcentajePrecioContrato:
		c.PorcentajePrecioContrato = parseNumber(value)
	case KeyAcumuladoRetencionGarantia:
		c.AcumuladoRetencionGarantia = parseNumber(value)
	case KeyEnlaceGarantiasReportes:
		c.EnlaceGarantiasReportes = value
	}
}

func fieldValue(c model.Contract, key string) string {
	switch key {
	case KeyContractType:
		return c.ContractType
	case KeyPackageName:
		return c.PackageName
	case KeyContractor:
		return c.Contractor
	case KeyCUI:
		return c.CUI
	case KeyEducationalInstitution:
		return c.EducationalInstitution
	case KeyMontoContratoOriginal:
		return formatNumber(c.MontoContratoOriginal)
	case KeyMontoContratoActualizado:
		return formatNumber(c.MontoContratoActualizado)
	case KeyPeriodoVigente:
		return c.PeriodoVigente
	case KeyStartDate:
		return c.StartDate
	case KeyEndDate:
		return c.EndDate
	case KeyEnlaceContratoAdendas:
		return c.EnlaceContratoAdendas
	case KeyAvanceEjecucion:
		return formatNumber(c.AvanceEjecucion)
	case KeyUltimaValorizacion:
		return c.UltimaValorizacion
	case KeyPeriodoPago:
		return c.PeriodoPago
	case KeyDocumentoInternoConformidad:
		return c.DocumentoInternoConformidad
	case KeyFactura:
		return c.Factura
	case KeyFechaPresentacionFactura:
		return c.FechaPresentacionFactura
	case KeyFechaVencimientoPago:
		return c.FechaVencimientoPago
	case KeyESinad:
		return c.ESinad
	case KeyEnlaceDocumentosValorizaciones:
		return c.EnlaceDocumentosValorizaciones
	case KeyGarantiasFielCumplimiento:
		return c.GarantiasFielCumplimiento
	case KeyPorcentajePrecioContrato:
		return formatNumber(c.PorcentajePrecioContrato)
	case KeyAcumuladoRetencionGarantia:
		return formatNumber(c.AcumuladoRetencionGarantia)
	case KeyEnlaceGarantiasReportes:
		return c.EnlaceGarantiasReportes
	default:
		return ""
	}
}

func parseNumber(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatDate reformats a cell to zero-padded YYYY-MM-DD, keeping the UTC
// calendar date of timestamped inputs. Strings that already look like an ISO
// date pass through verbatim even when they are not a real calendar date;
// everything else degrades to the empty string.
func formatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format("2006-01-02")
		}
	}
	if isoDateRe.MatchString(raw) {
		return raw
	}
	return ""
}
