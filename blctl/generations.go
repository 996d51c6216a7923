package blctl

// Generation describes a controller firmware family as identified by
// its ready-state status code.
type Generation struct {
	Name     string
	Code     StatusCode
	Features Features
}

// Known BL-Ctrl generations, newest first.
var generations = []Generation{
	{Name: "BL-Ctrl V3 (20 kHz)", Code: StatusV3FastReady, Features: Feature20kHz | FeatureV3 | FeatureExtendedStatus},
	{Name: "BL-Ctrl V3", Code: StatusV3Ready, Features: FeatureV3 | FeatureExtendedStatus},
	{Name: "BL-Ctrl V2", Code: StatusV2Ready, Features: FeatureExtendedStatus},
	{Name: "BL-Ctrl V1", Code: StatusRunning, Features: 0},
}

// GenerationByCode looks up the generation reporting the given status
// code. It returns false for codes outside the ready family.
func GenerationByCode(code StatusCode) (Generation, bool) {
	for _, g := range generations {
		if g.Code == code {
			return g, true
		}
	}
	return Generation{}, false
}

// Generations returns the known controller generations, newest first.
func Generations() []Generation {
	out := make([]Generation, len(generations))
	copy(out, generations)
	return out
}
