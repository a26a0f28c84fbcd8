package rules

// Category keys in canonical order. Classification ties and selector passes
// follow this order.
const (
	AIHeadlines      = "ai_headlines"
	ToolsPlatforms   = "tools_platforms"
	GovernanceSafety = "governance_safety"
	Cybersecurity    = "cybersecurity"
	FinanceMarkets   = "finance_markets"
	CryptoBlockchain = "crypto_blockchain"
	TechIndustry     = "tech_industry"
	PoliticsPolicy   = "politics_policy"
	WorldNews        = "world_news"
	ViralTrending    = "viral_trending"
	ScienceResearch  = "science_research"
	HealthBiotech    = "health_biotech"
)

func defaultCategories() []Category {
	return []Category{
		{
			Key:   AIHeadlines,
			Icon:  "📰",
			Title: "AI/ML Headlines",
			High: []string{
				"openai", "anthropic", "deepmind", "gemini", "gpt-5", "claude",
				"mistral", "llama", "agi", "chatgpt", "gpt-4", "claude-3",
			},
			Medium: []string{
				"artificial intelligence", "machine learning", "llm",
				"large language model", "neural network", "transformer",
				"foundation model", "generative ai", "genai",
			},
			Low: []string{
				"ai", "ml", "model", "training", "inference", "benchmark",
				"reasoning", "embedding", "fine-tuning", "prompt",
			},
			ExcludeIf:  []string{"stock", "earnings", "ipo", "shares", "investor", "quarterly"},
			Weight:     1.0,
			Tier:       1,
			WhyMatters: "Signals shifts in AI capabilities, competitive landscape, or adoption patterns.",
		},
		{
			Key:   ToolsPlatforms,
			Icon:  "🛠️",
			Title: "Tools, Models & Platforms",
			High: []string{
				"api release", "open source", "github release", "framework launch",
				"sdk release", "new model", "model release", "open weights",
			},
			Medium: []string{
				"developer tool", "library", "platform", "hugging face",
				"pytorch", "tensorflow", "langchain", "llamaindex", "vllm",
			},
			Low: []string{
				"tool", "code", "programming", "release", "launch", "checkpoint",
				"repository", "package", "module",
			},
			Weight:     0.95,
			Tier:       1,
			WhyMatters: "New tools can reduce cost, raise capability, or unlock new product patterns.",
		},
		{
			Key:   GovernanceSafety,
			Icon:  "⚖️",
			Title: "Governance, Safety & Ethics",
			High: []string{
				"ai act", "regulation", "alignment", "safety research",
				"ai policy", "ethics board", "ai safety", "responsible ai",
			},
			Medium: []string{
				"ethical ai", "bias", "fairness", "transparency", "audit",
				"compliance", "governance", "accountability",
			},
			Low: []string{
				"policy", "safety", "ethics", "nist", "oecd", "watermark",
				"disclosure", "oversight",
			},
			Weight:     0.90,
			Tier:       2,
			WhyMatters: "Policy changes can alter what models/hardware can be built, shipped, or deployed.",
		},
		{
			Key:   Cybersecurity,
			Icon:  "🔐",
			Title: "Cybersecurity",
			High: []string{
				"data breach", "ransomware", "zero-day", "cve-",
				"critical vulnerability", "nation-state", "apt",
			},
			Medium: []string{
				"hacker", "exploit", "malware", "phishing", "ddos",
				"cyber attack", "security flaw", "threat actor",
			},
			Low: []string{
				"security", "vulnerability", "patch", "encryption",
				"authentication", "firewall", "infosec",
			},
			Weight:     0.95,
			Tier:       1,
			WhyMatters: "Security incidents affect trust, compliance posture, and vendor choices.",
		},
		{
			Key:   FinanceMarkets,
			Icon:  "💹",
			Title: "Finance & Markets",
			High: []string{
				"stock market", "wall street", "fed rate", "interest rate",
				"earnings report", "market crash", "bull market", "bear market",
			},
			Medium: []string{
				"nasdaq", "s&p 500", "dow jones", "stock price", "trading",
				"investors", "hedge fund", "etf", "federal reserve",
			},
			Low: []string{
				"market", "stocks", "shares", "portfolio", "dividend",
				"bonds", "yield", "economy",
			},
			Weight:     0.85,
			Tier:       2,
			WhyMatters: "Market movements affect investment, funding, and tech valuations.",
		},
		{
			Key:   CryptoBlockchain,
			Icon:  "₿",
			Title: "Crypto & Blockchain",
			High: []string{
				"bitcoin", "ethereum", "crypto crash", "btc", "eth",
				"sec crypto", "defi", "nft", "solana",
			},
			Medium: []string{
				"blockchain", "cryptocurrency", "altcoin", "binance",
				"coinbase", "stablecoin", "web3", "dapp",
			},
			Low:        []string{"crypto", "token", "wallet", "mining", "halving", "memecoin"},
			Weight:     0.80,
			Tier:       2,
			WhyMatters: "Crypto trends impact fintech, regulation, and decentralized technology adoption.",
		},
		{
			Key:   TechIndustry,
			Icon:  "💻",
			Title: "Tech Industry",
			High: []string{
				"ipo", "acquisition", "billion dollar", "major funding",
				"layoffs", "ceo", "merger",
			},
			Medium: []string{
				"startup", "funding round", "series a", "series b",
				"valuation", "venture capital", "tech giant",
			},
			Low: []string{
				"tech company", "earnings", "revenue", "hiring",
				"expansion", "partnership",
			},
			Weight:     0.85,
			Tier:       2,
			WhyMatters: "Market signals affect funding, compute availability, and deployment timelines.",
		},
		{
			Key:   PoliticsPolicy,
			Icon:  "🏛️",
			Title: "Politics & Policy",
			High: []string{
				"executive order", "legislation", "congress", "senate",
				"biden", "trump", "eu commission", "parliament",
			},
			Medium: []string{
				"government", "administration", "federal", "regulatory",
				"antitrust", "investigation", "supreme court",
			},
			Low:        []string{"policy", "political", "law", "legal", "court", "ruling", "ban"},
			Weight:     0.80,
			Tier:       2,
			WhyMatters: "Political decisions shape regulatory environment and innovation landscape.",
		},
		{
			Key:   WorldNews,
			Icon:  "🌍",
			Title: "World News",
			High: []string{
				"china", "russia", "ukraine", "europe", "asia",
				"middle east", "global crisis",
			},
			Medium: []string{
				"international", "country", "nation", "foreign",
				"trade war", "sanctions", "diplomacy",
			},
			Low:        []string{"world", "global", "abroad", "overseas", "export", "import"},
			Weight:     0.75,
			Tier:       3,
			WhyMatters: "Global events create new constraints or opportunities for tech deployment.",
		},
		{
			Key:   ViralTrending,
			Icon:  "🔥",
			Title: "Viral & Trending",
			High: []string{
				"viral", "breaking", "trending", "just announced",
				"exclusive", "leaked",
			},
			Medium: []string{
				"meme", "social media", "twitter", "x.com",
				"went viral", "internet", "tiktok",
			},
			Low:        []string{"popular", "buzz", "hype", "everyone", "massive"},
			Weight:     0.60,
			Tier:       3,
			WhyMatters: "Viral stories indicate shifting public sentiment and adoption trends.",
		},
		{
			Key:   ScienceResearch,
			Icon:  "🔬",
			Title: "Science & Research",
			High: []string{
				"arxiv", "research paper", "peer review", "phd", "scientific study",
				"nature journal", "science journal", "published study",
			},
			Medium: []string{
				"scientific", "experiment", "study finds", "researchers",
				"discovery", "laboratory", "hypothesis", "findings",
			},
			Low: []string{
				"research", "breakthrough", "scientist", "university",
				"academic", "paper", "study",
			},
			ExcludeIf:  []string{"product", "launch", "startup", "funding", "ipo"},
			Weight:     0.90,
			Tier:       2,
			WhyMatters: "New research findings can unlock breakthrough capabilities and applications.",
		},
		{
			Key:   HealthBiotech,
			Icon:  "🧬",
			Title: "Health & Biotech",
			High: []string{
				"fda", "clinical trial", "vaccine", "crispr", "gene therapy",
				"drug approval", "phase 3", "phase 2",
			},
			Medium: []string{
				"pharmaceutical", "biotech", "medical", "treatment",
				"therapy", "diagnosis", "patient", "healthcare",
			},
			Low: []string{
				"health", "drug", "medicine", "hospital", "disease",
				"symptom", "cure",
			},
			ExcludeIf:  []string{"stock", "earnings", "shares", "investor"},
			Weight:     0.88,
			Tier:       2,
			WhyMatters: "Medical advances impact healthcare, regulation, and life sciences innovation.",
		},
	}
}
