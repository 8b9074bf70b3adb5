package cost

// Pricing is USD per million tokens for one model.
type Pricing struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// modelPricing covers the models nightwatch runs with. Unknown models
// estimate as zero rather than guessing.
var modelPricing = map[string]Pricing{
	"claude-sonnet-4-5-20250929": {InputPerMTok: 3.00, OutputPerMTok: 15.00},
	"claude-3-5-haiku-20241022":  {InputPerMTok: 0.80, OutputPerMTok: 4.00},
}

// Estimate returns the USD cost for a call, zero for unknown models.
func Estimate(model string, inputTokens, outputTokens int64) float64 {
	p, ok := modelPricing[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1e6*p.InputPerMTok + float64(outputTokens)/1e6*p.OutputPerMTok
}
