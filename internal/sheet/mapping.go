package sheet

import "strings"

// Binding pairs an external column label with the internal contract key it
// feeds. The external labels must match the header row of the backing sheet
// after normalization.
type Binding struct {
	Header string
	Key    string
}

// Internal keys understood by the codec.
const (
	KeyContractType                   = "contractType"
	KeyPackageName                    = "packageName"
	KeyContractor                     = "contractor"
	KeyCUI                            = "cui"
	KeyEducationalInstitution         = "educationalInstitution"
	KeyMontoContratoOriginal          = "montoContratoOriginal"
	KeyMontoContratoActualizado       = "montoContratoActualizado"
	KeyPeriodoVigente                 = "periodoVigente"
	KeyStartDate                      = "startDate"
	KeyEndDate                        = "endDate"
	KeyEnlaceContratoAdendas          = "enlaceContratoAdendas"
	KeyAvanceEjecucion                = "avanceEjecucion"
	KeyUltimaValorizacion             = "ultimaValorizacion"
	KeyPeriodoPago                    = "periodoPago"
	KeyDocumentoInternoConformidad    = "documentoInternoConformidad"
	KeyFactura                        = "factura"
	KeyFechaPresentacionFactura       = "fechaPresentacionFactura"
	KeyFechaVencimientoPago           = "fechaVencimientoPago"
	KeyESinad                         = "eSinad"
	KeyEnlaceDocumentosValorizaciones = "enlaceDocumentosValorizaciones"
	KeyGarantiasFielCumplimiento      = "garantiasFielCumplimiento"
	KeyPorcentajePrecioContrato       = "porcentajePrecioContrato"
	KeyAcumuladoRetencionGarantia     = "acumuladoRetencionGarantia"
	KeyEnlaceGarantiasReportes        = "enlaceGarantiasReportes"
)

// DefaultColumnMap returns the canonical header-to-key bindings of the
// "Contratos" sheet, in the column order the sheet was created with.
func DefaultColumnMap() []Binding {
	return []Binding{
		{"Tipo de Contrato", KeyContractType},
		{"Paquete", KeyPackageName},
		{"Contratista", KeyContractor},
		{"CUI", KeyCUI},
		{"Nombre de la Institución Educativa (I.E.)", KeyEducationalInstitution},
		{"monto del contrato (original)", KeyMontoContratoOriginal},
		{"monto del contrato actualizado", KeyMontoContratoActualizado},
		{"Periodo vigente", KeyPeriodoVigente},
		{"Fecha de Inicio", KeyStartDate},
		{"Fecha de Fin", KeyEndDate},
		{"Enlace del contrato y sus adendas", KeyEnlaceContratoAdendas},
		{"% de avance de ejecución", KeyAvanceEjecucion},
		{"última valorización", KeyUltimaValorizacion},
		{"Periodo de pago", KeyPeriodoPago},
		{"Documento interno (con Conformidad)", KeyDocumentoInternoConformidad},
		{"Factura", KeyFactura},
		{"Fecha de presentación de la factura", KeyFechaPresentacionFactura},
		{"Fecha de vencimiento de pago", KeyFechaVencimientoPago},
		{"E-SINAD", KeyESinad},
		{"Enlace para acceder a los documentos de las valorizaciones", KeyEnlaceDocumentosValorizaciones},
		{"Garantías de fiel Cumplimiento", KeyGarantiasFielCumplimiento},
		{"% del Precio del contrato", KeyPorcentajePrecioContrato},
		{"Acumulado de la retención por fondo de garantía", KeyAcumuladoRetencionGarantia},
		{"Enlace para acceder a las garantías y reportes de las mismas", KeyEnlaceGarantiasReportes},
	}
}

// NormalizeHeader makes header comparison tolerant to case and surrounding
// whitespace drift in the live sheet.
func NormalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}
