package model

type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "Activo"
	ContractStatusCompleted ContractStatus = "Completado"
)

// Contract is the fully decoded record for a single sheet row. Status,
// TotalAmount and ExecutionProgress are derived on every decode and are
// never stored in the backing sheet.
type Contract struct {
	ID                             string         `json:"id"`
	CUI                            string         `json:"cui"`
	ContractType                   string         `json:"contractType"`
	PackageName                    string         `json:"packageName"`
	Contractor                     string         `json:"contractor"`
	EducationalInstitution         string         `json:"educationalInstitution"`
	MontoContratoOriginal          float64        `json:"montoContratoOriginal"`
	MontoContratoActualizado       float64        `json:"montoContratoActualizado"`
	PeriodoVigente                 string         `json:"periodoVigente"`
	StartDate                      string         `json:"startDate"`
	EndDate                        string         `json:"endDate"`
	EnlaceContratoAdendas          string         `json:"enlaceContratoAdendas"`
	AvanceEjecucion                float64        `json:"avanceEjecucion"`
	UltimaValorizacion             string         `json:"ultimaValorizacion"`
	PeriodoPago                    string         `json:"periodoPago"`
	DocumentoInternoConformidad    string         `json:"documentoInternoConformidad"`
	Factura                        string         `json:"factura"`
	FechaPresentacionFactura       string         `json:"fechaPresentacionFactura"`
	FechaVencimientoPago           string         `json:"fechaVencimientoPago"`
	ESinad                         string         `json:"eSinad"`
	EnlaceDocumentosValorizaciones string         `json:"enlaceDocumentosValorizaciones"`
	GarantiasFielCumplimiento      string         `json:"garantiasFielCumplimiento"`
	PorcentajePrecioContrato       float64        `json:"porcentajePrecioContrato"`
	AcumuladoRetencionGarantia     float64        `json:"acumuladoRetencionGarantia"`
	EnlaceGarantiasReportes        string         `json:"enlaceGarantiasReportes"`
	Status                         ContractStatus `json:"status"`
	TotalAmount                    float64        `json:"totalAmount"`
	ExecutionProgress              float64        `json:"executionProgress"`
}

// ContractFilter selects visible contracts by exact facet match. An empty
// field means no constraint on that facet.
type ContractFilter struct {
	ContractType           string `json:"contractType,omitempty"`
	PackageName            string `json:"packageName,omitempty"`
	Contractor             string `json:"contractor,omitempty"`
	EducationalInstitution string `json:"educationalInstitution,omitempty"`
}
