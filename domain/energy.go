package domain

// EnergyKind identifica la etiqueta energética: consumo (DPE) o emisiones (GES)
type EnergyKind string

const (
	EnergyKindDPE EnergyKind = "dpe" // kWh/m²/año
	EnergyKindGES EnergyKind = "ges" // kg CO2/m²/año
)

const neutralEnergyColor = "#cccccc"

// energyBand es un tramo con límite superior inclusivo
type energyBand struct {
	upTo  int
	grade string
}

var (
	dpeBands = []energyBand{{70, "A"}, {110, "B"}, {180, "C"}, {250, "D"}, {330, "E"}, {420, "F"}}
	gesBands = []energyBand{{6, "A"}, {11, "B"}, {30, "C"}, {50, "D"}, {70, "E"}, {100, "F"}}
)

var (
	dpeColors = map[string]string{
		"A": "#00a651",
		"B": "#4cb82b",
		"C": "#9ccd00",
		"D": "#fff100",
		"E": "#ffc600",
		"F": "#ff8c00",
		"G": "#e4002b",
	}
	gesColors = map[string]string{
		"A": "#68217a",
		"B": "#0066b3",
		"C": "#00a651",
		"D": "#fff100",
		"E": "#ffc600",
		"F": "#ff8c00",
		"G": "#e4002b",
	}
)

// Classify devuelve la letra A..G para un valor de consumo o de emisiones.
// Un valor ausente o <= 0 no tiene clase (nil).
func Classify(kind EnergyKind, value *int) *string {
	if value == nil || *value <= 0 {
		return nil
	}

	var bands []energyBand
	switch kind {
	case EnergyKindDPE:
		bands = dpeBands
	case EnergyKindGES:
		bands = gesBands
	default:
		return nil
	}

	grade := "G"
	for _, band := range bands {
		if *value <= band.upTo {
			grade = band.grade
			break
		}
	}
	return &grade
}

// ClassifyDPE clasifica un consumo en kWh/m²/año
func ClassifyDPE(value *int) *string {
	return Classify(EnergyKindDPE, value)
}

// ClassifyGES clasifica emisiones en kg CO2/m²/año
func ClassifyGES(value *int) *string {
	return Classify(EnergyKindGES, value)
}

// EnergyColor devuelve el color de visualización de una clase.
// Clases desconocidas o ausentes usan un gris neutro.
func EnergyColor(kind EnergyKind, grade *string) string {
	if grade == nil {
		return neutralEnergyColor
	}

	var palette map[string]string
	switch kind {
	case EnergyKindDPE:
		palette = dpeColors
	case EnergyKindGES:
		palette = gesColors
	default:
		return neutralEnergyColor
	}

	if color, ok := palette[*grade]; ok {
		return color
	}
	return neutralEnergyColor
}

// EnergyRating es una etiqueta lista para mostrar
type EnergyRating struct {
	Value *int    `json:"value"`
	Class *string `json:"class"`
	Color string  `json:"color"`
}

// EnergyLabel agrupa las dos etiquetas de una propiedad
type EnergyLabel struct {
	PropertyID string       `json:"propertyId"`
	DPE        EnergyRating `json:"dpe"`
	GES        EnergyRating `json:"ges"`
}

// normalizeEnergyValue trata los valores <= 0 como ausentes
func normalizeEnergyValue(value *int) *int {
	if value == nil || *value <= 0 {
		return nil
	}
	v := *value
	return &v
}
