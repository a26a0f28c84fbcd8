package rules

func defaultSourceTiers() []Tier {
	return []Tier{
		{Name: "tier_1", Sources: []Source{
			{"reuters.com", 1.0},
			{"apnews.com", 1.0},
			{"bloomberg.com", 0.98},
			{"ft.com", 0.98},
			{"wsj.com", 0.97},
			{"nytimes.com", 0.96},
			{"nature.com", 0.99},
			{"arxiv.org", 0.95},
			{"sciencedaily.com", 0.92},
			{"bbc.com", 0.95},
			{"theguardian.com", 0.94},
		}},
		{Name: "tier_2", Sources: []Source{
			{"techcrunch.com", 0.90},
			{"theverge.com", 0.88},
			{"arstechnica.com", 0.89},
			{"wired.com", 0.87},
			{"technologyreview.com", 0.91},
			{"spectrum.ieee.org", 0.90},
			{"venturebeat.com", 0.85},
			{"zdnet.com", 0.82},
			{"engadget.com", 0.80},
			{"cnbc.com", 0.88},
			{"marketwatch.com", 0.85},
		}},
		{Name: "tier_3", Sources: []Source{
			{"huggingface.co", 0.78},
			{"openai.com", 0.79},
			{"deepmind.google", 0.79},
			{"nvidia.com", 0.77},
			{"marktechpost.com", 0.72},
			{"infoq.com", 0.75},
			{"hackernoon.com", 0.68},
			{"analyticsindiamag.com", 0.70},
			{"krebsonsecurity.com", 0.85},
			{"bleepingcomputer.com", 0.78},
			{"thehackernews.com", 0.75},
			{"schneier.com", 0.82},
			{"seekingalpha.com", 0.75},
			{"coindesk.com", 0.80},
			{"cointelegraph.com", 0.78},
			{"decrypt.co", 0.75},
			{"medscape.com", 0.82},
			{"statnews.com", 0.80},
			{"sciencemag.org", 0.88},
			{"newscientist.com", 0.78},
		}},
		{Name: "tier_4", Sources: []Source{
			{"reddit.com", 0.55},
			{"dev.to", 0.58},
			{"medium.com", 0.52},
			{"substack.com", 0.56},
			{"news.ycombinator.com", 0.62},
			{"twitter.com", 0.50},
			{"x.com", 0.50},
		}},
	}
}

func defaultImportance() []Weighted {
	return []Weighted{
		{"breaking", 0.25},
		{"exclusive", 0.22},
		{"just announced", 0.20},
		{"major", 0.15},
		{"urgent", 0.18},

		{"billion", 0.18},
		{"million", 0.12},
		{"unprecedented", 0.15},
		{"groundbreaking", 0.14},
		{"first ever", 0.16},
		{"world first", 0.18},
		{"breakthrough", 0.17},
		{"record", 0.12},

		{"openai", 0.12},
		{"google", 0.10},
		{"microsoft", 0.10},
		{"meta", 0.09},
		{"nvidia", 0.11},
		{"anthropic", 0.11},
		{"deepmind", 0.10},
		{"apple", 0.09},
		{"amazon", 0.08},

		{"breach", 0.14},
		{"hack", 0.13},
		{"vulnerability", 0.12},
		{"ransomware", 0.15},
		{"lawsuit", 0.13},
		{"acquisition", 0.14},
		{"ipo", 0.15},
		{"layoffs", 0.12},

		{"bitcoin", 0.12},
		{"ethereum", 0.11},
		{"crypto crash", 0.16},
		{"fed rate", 0.14},
		{"market crash", 0.18},
		{"all-time high", 0.15},
		{"record high", 0.14},

		{"cure", 0.15},
		{"fda approval", 0.14},
		{"clinical trial", 0.12},
		{"discovery", 0.13},
	}
}

// Companies and people that drag unrelated stories into the AI category.
func defaultNonAIEntities() []string {
	return []string{
		"instacart", "strava", "payoneer", "genco", "hyundai", "tesla",
		"uber", "lyft", "airbnb", "doordash", "grubhub", "shopify",
		"squarespace", "wix", "godaddy", "dropbox", "box", "slack",
		"zoom", "webex", "docusign", "twilio", "stripe", "square",
		"paypal", "venmo", "robinhood", "coinbase", "binance", "kraken",
		"serpapi", "graphite", "mode mobile", "ngl", "earnphone",
		"diana shipping", "genco shipping", "maersk", "fedex", "ups",
		"musk", "elon musk", "kennedy", "kerry kennedy", "trump", "biden",
		"starbucks", "mcdonald", "walmart", "target", "costco", "amazon prime",
	}
}

func defaultGlobalExclusions() map[string][]string {
	return map[string][]string{
		AIHeadlines: {
			"stock", "earnings", "ipo", "shares", "investor", "quarterly",
			"market cap", "revenue forecast", "dividend", "portfolio",
			"pay package", "salary", "compensation", "ceo pay", "bonus",
			"lawsuit settlement", "ftc settlement", "refund", "sues", "sued",
			"court ruling", "legal battle", "antitrust",
			"subscribers", "paywall", "subscription", "membership",
			"shipping", "freight", "cargo", "logistics",
			"ransom demand", "bomb threat", "evacuated", "shooting",
			"homeless", "prayer", "church", "religion",
			"soundbar", "audio", "tv dialogue", "speaker",
			"prediction market", "betting", "gambling",
			"illinois", "michigan", "connecticut", "california",
			"kennedy center", "white house",
			"bitcoin ransom", "crypto ransom", "btc demand",
		},
		ToolsPlatforms: {
			"lawsuit", "sued", "antitrust", "investigation", "layoff",
			"earnings", "stock price", "shares",
		},
		ScienceResearch: {
			"product launch", "startup funding", "series a", "series b",
			"ipo", "valuation", "investor", "stock price",
		},
		HealthBiotech: {
			"stock", "earnings", "shares", "investor", "quarterly",
			"market cap", "portfolio",
		},
	}
}

func defaultBoosts() map[string][]Weighted {
	return map[string][]Weighted{
		AIHeadlines: {
			{"openai", 5.0}, {"anthropic", 5.0}, {"deepmind", 5.0},
			{"gpt-5", 6.0}, {"gpt-4", 4.0}, {"claude-3", 5.0},
			{"gemini 2", 5.0}, {"llama 3", 4.0}, {"mistral", 4.0},
			{"chatgpt", 4.0}, {"large language model", 4.0},
			{"claude's", 5.0}, {"anthropic moves", 5.0},
			{"llm", 4.0}, {"transformer", 3.0}, {"neural network", 3.0},
			{"ai model", 5.0}, {"language model", 5.0},
			{"bedrock", 3.0}, {"agentcore", 4.0}, {"aws ai", 4.0},
			{"alli ai", 5.0}, {"8k video", 3.0}, {"ai unveils", 5.0},
			{"ai system", 4.0}, {"innovative system", 3.0},
			{"creating and editing", 3.0}, {"video generation", 4.0},
		},
		Cybersecurity: {
			{"data breach", 6.0}, {"ransomware attack", 6.0},
			{"zero-day", 6.0}, {"cve-", 5.0}, {"hacked", 4.0},
			{"vulnerability", 4.0}, {"malware", 4.0}, {"exploit", 4.0},
			{"hackers", 5.0}, {"phishing", 4.0}, {"uefi flaw", 6.0},
			{"security flaw", 5.0}, {"account takeover", 5.0},
			{"russia-linked hackers", 6.0}, {"nation-state", 5.0},
			{"pre-boot attack", 6.0}, {"boot attack", 5.0},
			{"flaw enables", 5.0}, {"enables attack", 5.0},
			{"firmware", 4.0}, {"bios", 4.0}, {"uefi", 5.0},
		},
		CryptoBlockchain: {
			{"bitcoin", 5.0}, {"ethereum", 5.0}, {"btc", 4.0}, {"eth", 3.0},
			{"crypto crash", 6.0}, {"sec crypto", 5.0}, {"cryptocurrency", 4.0},
			{"blockchain", 3.0}, {"defi", 4.0}, {"nft", 3.0},
			{"coinbase", 5.0}, {"binance", 5.0}, {"kraken", 4.0},
			{"crypto ransom", 5.0}, {"bitcoin ransom", 5.0},
			{"prediction market", 4.0},
		},
		FinanceMarkets: {
			{"fed rate", 6.0}, {"interest rate decision", 6.0},
			{"stock market crash", 6.0}, {"wall street", 4.0},
			{"stock surge", 5.0}, {"shares rose", 4.0}, {"earnings report", 4.0},
			{"nasdaq", 4.0}, {"s&p 500", 4.0}, {"dow jones", 4.0},
			{"pay package", 5.0}, {"ceo pay", 5.0}, {"compensation", 4.0},
			{"payoneer", 5.0}, {"payment provider", 4.0},
			{"shipping", 4.0}, {"genco", 5.0}, {"diana", 4.0},
			{"million in", 4.0}, {"billion in", 4.0},
			{"ftc settlement", 5.0}, {"refund", 3.0},
			{"portfolio", 3.0}, {"upside", 3.0}, {"floor", 2.0}, {"ceiling", 2.0},
			{"wife earns", 4.0}, {"terrified", 3.0}, {"taxes", 4.0}, {"retirement", 4.0},
		},
		TechIndustry: {
			{"acquisition", 5.0}, {"acquires", 5.0}, {"acquired", 5.0},
			{"billion", 4.0}, {"layoffs", 5.0}, {"ipo", 5.0}, {"startup", 3.0},
			{"funding round", 4.0}, {"series a", 4.0}, {"valuation", 3.0},
			{"instacart", 5.0}, {"strava", 5.0}, {"cursor", 4.0},
			{"mode mobile", 4.0}, {"ngl app", 4.0}, {"serpapi", 4.0},
			{"paywall", 4.0}, {"subscription", 3.0}, {"subscribers", 3.0},
			{"google lobs", 4.0}, {"lawsuit", 3.0},
			{"messaging app", 4.0}, {"app acquired", 5.0},
			{"musk wins", 4.0}, {"tesla", 4.0},
			{"soundbar", 4.0}, {"tv dialogue", 4.0}, {"audio", 3.0},
			{"gigabyte", 4.0}, {"msi", 4.0}, {"asus", 4.0}, {"asrock", 4.0},
			{"motherboard", 4.0}, {"gcp", 3.0}, {"certification", 3.0},
		},
		GovernanceSafety: {
			{"ai act", 6.0}, {"regulation", 4.0}, {"ai safety", 5.0},
			{"ai policy", 5.0}, {"ethics", 3.0}, {"parliament", 4.0},
			{"legislation", 4.0}, {"compliance", 3.0},
		},
		ScienceResearch: {
			{"arxiv", 6.0}, {"research paper", 5.0}, {"study finds", 4.0},
			{"researchers", 3.0}, {"peer review", 5.0}, {"published study", 5.0},
			{"scientific", 3.0}, {"experiment", 3.0},
		},
		HealthBiotech: {
			{"fda", 6.0}, {"clinical trial", 5.0}, {"drug approval", 6.0},
			{"gene therapy", 5.0}, {"vaccine", 4.0}, {"pharmaceutical", 4.0},
			{"phase 3", 5.0}, {"phase 2", 4.0}, {"crispr", 5.0},
		},
		PoliticsPolicy: {
			{"executive order", 6.0}, {"congress", 4.0}, {"senate", 4.0},
			{"biden", 4.0}, {"trump", 4.0}, {"legislation", 4.0},
			{"supreme court", 5.0}, {"antitrust", 4.0},
			{"kennedy", 5.0}, {"kerry kennedy", 5.0}, {"kennedy center", 5.0},
			{"white house", 4.0}, {"pickax", 3.0},
		},
		WorldNews: {
			{"ukraine", 5.0}, {"russia", 4.0}, {"china", 4.0},
			{"middle east", 4.0}, {"europe", 3.0}, {"global crisis", 5.0},
			{"sanctions", 4.0}, {"trade war", 5.0},
			{"bomb threat", 5.0}, {"evacuated", 4.0}, {"protest", 3.0},
			{"south korean", 4.0}, {"hyundai", 4.0},
			{"shooting", 4.0}, {"university shooting", 5.0},
		},
		ViralTrending: {
			{"viral", 5.0}, {"trending", 4.0}, {"breaking", 4.0},
			{"exclusive", 4.0}, {"leaked", 5.0}, {"went viral", 5.0},
			{"deleted", 3.0}, {"speculated", 3.0},
			{"sequoia", 3.0}, {"x post", 3.0},
		},
	}
}

// Built-in category weight presets applied to final scores.
func defaultCategoryWeights() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"default": {},
		"ai_focus": {
			AIHeadlines:      1.25,
			ToolsPlatforms:   1.15,
			GovernanceSafety: 1.10,
			FinanceMarkets:   0.80,
			CryptoBlockchain: 0.75,
			ViralTrending:    0.70,
		},
		"finance": {
			FinanceMarkets:   1.25,
			CryptoBlockchain: 1.15,
			TechIndustry:     1.10,
			ViralTrending:    0.70,
		},
		"security": {
			Cybersecurity:    1.30,
			GovernanceSafety: 1.10,
			ViralTrending:    0.70,
		},
		"science": {
			ScienceResearch: 1.25,
			HealthBiotech:   1.20,
			ViralTrending:   0.70,
		},
	}
}
