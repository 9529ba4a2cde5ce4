package domain

// Feature names as they appear on the wire and in model files
const (
	FeatureCulmenLength    = "culmen_length_mm"
	FeatureCulmenDepth     = "culmen_depth_mm"
	FeatureFlipperLength   = "flipper_length_mm"
	FeatureBodyMass        = "body_mass_g"
	FeatureSex             = "sex"
	FeatureIslandBiscoe    = "island_Biscoe"
	FeatureIslandDream     = "island_Dream"
	FeatureIslandTorgersen = "island_Torgersen"
)

// FeatureNames lists every feature in wire order
var FeatureNames = []string{
	FeatureCulmenLength,
	FeatureCulmenDepth,
	FeatureFlipperLength,
	FeatureBodyMass,
	FeatureSex,
	FeatureIslandBiscoe,
	FeatureIslandDream,
	FeatureIslandTorgersen,
}

// Known species labels
const (
	SpeciesAdelie    = "Adelie"
	SpeciesChinstrap = "Chinstrap"
	SpeciesGentoo    = "Gentoo"
)

// FeatureRecord describes one penguin observation submitted for classification.
// The island indicators are one-hot by convention only; nothing enforces that
// exactly one of them is set.
type FeatureRecord struct {
	CulmenLengthMM  float64 `json:"culmen_length_mm"`
	CulmenDepthMM   float64 `json:"culmen_depth_mm"`
	FlipperLengthMM float64 `json:"flipper_length_mm"`
	BodyMassG       float64 `json:"body_mass_g"`
	Sex             int     `json:"sex"`
	IslandBiscoe    int     `json:"island_Biscoe"`
	IslandDream     int     `json:"island_Dream"`
	IslandTorgersen int     `json:"island_Torgersen"`
}

// AsMap returns the record as the key/value mapping handed to a model
func (r FeatureRecord) AsMap() map[string]float64 {
	return map[string]float64{
		FeatureCulmenLength:    r.CulmenLengthMM,
		FeatureCulmenDepth:     r.CulmenDepthMM,
		FeatureFlipperLength:   r.FlipperLengthMM,
		FeatureBodyMass:        r.BodyMassG,
		FeatureSex:             float64(r.Sex),
		FeatureIslandBiscoe:    float64(r.IslandBiscoe),
		FeatureIslandDream:     float64(r.IslandDream),
		FeatureIslandTorgersen: float64(r.IslandTorgersen),
	}
}

// Prediction is the result returned to the caller
type Prediction struct {
	Species string `json:"species"`
}
