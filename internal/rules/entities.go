package rules

// DefaultEntityKey marks the per-type fallback mapping in an entity map.
const DefaultEntityKey = "_default"

// EntityRule maps one named entity to a category boost.
type EntityRule struct {
	Category string   `yaml:"category"`
	Boost    float64  `yaml:"boost"`
	Aliases  []string `yaml:"aliases,omitempty"`
}

// EntityMap is keyed by entity type (ORG, PRODUCT, PERSON, GPE, MONEY), then
// by lowercased entity name.
type EntityMap map[string]map[string]EntityRule

func defaultEntityMap() EntityMap {
	return EntityMap{
		"ORG": {
			"openai":       {Category: AIHeadlines, Boost: 0.9, Aliases: []string{"open ai"}},
			"anthropic":    {Category: AIHeadlines, Boost: 0.9},
			"deepmind":     {Category: AIHeadlines, Boost: 0.9, Aliases: []string{"google deepmind"}},
			"hugging face": {Category: ToolsPlatforms, Boost: 0.7, Aliases: []string{"huggingface"}},
			"mistral ai":   {Category: AIHeadlines, Boost: 0.8},
			"cohere":       {Category: AIHeadlines, Boost: 0.6},
			"nvidia":       {Category: TechIndustry, Boost: 0.5},
			"federal reserve": {Category: FinanceMarkets, Boost: 0.9, Aliases: []string{"the fed"}},
			"sec":          {Category: FinanceMarkets, Boost: 0.5},
			"nasdaq":       {Category: FinanceMarkets, Boost: 0.6},
			"coinbase":     {Category: CryptoBlockchain, Boost: 0.8},
			"binance":      {Category: CryptoBlockchain, Boost: 0.8},
			"fda":          {Category: HealthBiotech, Boost: 0.9, Aliases: []string{"food and drug administration"}},
			"cisa":         {Category: Cybersecurity, Boost: 0.8},
			"european commission": {Category: PoliticsPolicy, Boost: 0.6, Aliases: []string{"eu commission"}},
		},
		"PRODUCT": {
			"chatgpt": {Category: AIHeadlines, Boost: 0.8},
			"gpt-5":   {Category: AIHeadlines, Boost: 0.9},
			"claude":  {Category: AIHeadlines, Boost: 0.8},
			"gemini":  {Category: AIHeadlines, Boost: 0.7},
			"llama":   {Category: ToolsPlatforms, Boost: 0.6},
			"pytorch": {Category: ToolsPlatforms, Boost: 0.7},
			"bitcoin": {Category: CryptoBlockchain, Boost: 0.9, Aliases: []string{"btc"}},
			"ethereum": {Category: CryptoBlockchain, Boost: 0.9, Aliases: []string{"ether"}},
		},
		"PERSON": {
			"sam altman":    {Category: AIHeadlines, Boost: 0.6},
			"dario amodei":  {Category: AIHeadlines, Boost: 0.6},
			"jerome powell": {Category: FinanceMarkets, Boost: 0.7},
		},
		"GPE": {
			"ukraine": {Category: WorldNews, Boost: 0.6},
			"russia":  {Category: WorldNews, Boost: 0.5},
			"china":   {Category: WorldNews, Boost: 0.4},
			"taiwan":  {Category: WorldNews, Boost: 0.4},
		},
		"MONEY": {
			DefaultEntityKey: {Category: FinanceMarkets, Boost: 0.3},
		},
	}
}

// Fallback entity sets used when no entity map is configured.
var (
	AICompanies = []string{
		"openai", "anthropic", "deepmind", "google", "microsoft", "meta",
		"nvidia", "apple", "amazon", "tesla", "hugging face", "mistral",
		"cohere", "stability ai", "midjourney", "runway", "databricks",
	}
	FinanceEntities = []string{
		"federal reserve", "fed", "s&p", "nasdaq", "dow jones",
		"wall street", "sec", "treasury", "imf", "world bank",
	}
	CryptoEntities = []string{
		"bitcoin", "ethereum", "binance", "coinbase", "ftx", "tether",
		"solana", "cardano", "ripple", "dogecoin",
	}
	Countries = []string{
		"united states", "china", "russia", "ukraine", "india", "japan",
		"germany", "france", "united kingdom", "israel", "iran", "taiwan",
		"south korea", "north korea", "brazil", "canada", "mexico",
	}
)
