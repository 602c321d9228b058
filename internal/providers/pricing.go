package providers

// Pricing approximations in USD per 1M tokens, used to estimate the cost of
// every recorded generation. Providers that omit usage data additionally get
// token counts estimated from text length.
var modelPricing = map[string]struct {
	inputPer1M  float64
	outputPer1M float64
}{
	"gpt-4o":           {2.50, 10.00},
	"gpt-4o-mini":      {0.15, 0.60},
	"gpt-4.1":          {2.00, 8.00},
	"gpt-4.1-mini":     {0.40, 1.60},
	"gemini-1.5-pro":   {1.25, 5.00},
	"gemini-1.5-flash": {0.075, 0.30},
	"gemini-2.0-flash": {0.10, 0.40},
}

// Fallback rates for models missing from the table.
const (
	defaultInputCostPer1M  = 1.00
	defaultOutputCostPer1M = 4.00
)

// EstimateTokens roughly estimates the token count of a text.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// EstimateCost returns the approximate USD cost of a call.
func EstimateCost(model string, promptTokens, completionTokens int) float64 {
	rates, ok := modelPricing[model]
	if !ok {
		rates.inputPer1M = defaultInputCostPer1M
		rates.outputPer1M = defaultOutputCostPer1M
	}
	return float64(promptTokens)*rates.inputPer1M/1e6 +
		float64(completionTokens)*rates.outputPer1M/1e6
}
