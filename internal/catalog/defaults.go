package catalog

// Default returns a fresh copy of the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		ComplianceKeywords: []string{
			"investment", "invest", "portfolio", "stocks", "bonds", "mutual fund",
			"etf", "retirement", "ira", "401k", "pension", "tax", "insurance",
			"mortgage", "wealth", "budget", "currency", "finance", "financial",
			"advisor", "planning", "savings", "risk", "hedge", "capital",
		},
		RedirectReply: "Aliya Buddy cannot provide financial, tax, or investment advice. " +
			"For personalized guidance, please [schedule a free consultation with Aliya Financial](" + URLPlaceholder + ").",

		Affirmations: []string{"yes", "sure", "okay", "ok", "please do", "yep"},
		Elaborations: []Elaboration{
			{
				Match: "community",
				Reply: "Perfect! Here are some Anglo community groups in Tzfat, Haifa, and Karmiel you can reach out to. " +
					"Would you like me to also suggest WhatsApp groups that many Olim use to stay connected?",
			},
			{
				Match: "cost",
				Reply: "Great! Numbeo provides detailed breakdowns of rent, groceries, and utilities. " +
					"Would you like me to compare Haifa’s costs with Tel Aviv or Jerusalem?",
			},
		},
		DefaultElaboration: "Great! Let me expand on that for you.",

		ResourceLinks: map[Topic]string{
			TopicGovernment: "https://www.gov.il/en/departments/immigration_and_absorption",
			TopicCommunity:  "https://www.nbn.org.il/aliyahpedia/",
			TopicCost:       "https://www.numbeo.com/cost-of-living/",
			TopicFinance:    "https://aliyabrd-s23wab.manus.space/",
		},
		LinkRules: []LinkRule{
			{
				Topic:    TopicCommunity,
				Keywords: []string{"community"},
				Text:     "You can also explore more on [Nefesh B’Nefesh’s community guide](" + URLPlaceholder + ").",
			},
			{
				Topic:    TopicCost,
				Keywords: []string{"cost", "apartment", "living"},
				Text:     "For up-to-date data, check [Numbeo’s cost of living index](" + URLPlaceholder + ").",
			},
			{
				Topic:    TopicGovernment,
				Keywords: []string{"government", "visa", "paperwork"},
				Text:     "Official details are available on the [Israeli government Aliyah portal](" + URLPlaceholder + ").",
			},
		},

		FollowUpRules: []Rule{
			{Topic: TopicCommunity, Keywords: []string{"community", "anglo"}},
			{Topic: TopicCulture, Keywords: []string{"culture", "holiday"}},
			{Topic: TopicCost, Keywords: []string{"cost", "apartment", "living"}},
		},
		FollowUps: map[Topic][]string{
			TopicCulture: {
				"Would you like me to share more about daily life in Israel?",
				"Do you want me to outline some cultural differences you might notice right away?",
			},
			TopicCommunity: {
				"Should I suggest ways to connect with local Anglo communities?",
				"Would you like me to highlight WhatsApp or Facebook groups where Anglos stay connected?",
			},
			TopicCost: {
				"Would you like me to compare costs between cities like Tel Aviv, Jerusalem, and Haifa?",
				"Should I break down typical monthly expenses for a family of four?",
			},
			TopicGeneral: {
				"What part of this feels most relevant to your Aliyah journey?",
				"Would you like me to suggest the next steps you could take?",
			},
		},
	}
}
