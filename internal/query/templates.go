// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

// Template holds the PubMed query fragments for one research topic. Core is
// always present; DB, Source and Expand are pre-formatted boolean clauses that
// start with "AND" and are appended only when non-empty.
type Template struct {
	Core   string
	DB     string
	Source string
	Expand string
}

// topicOrder is the display order of the topics on the form and in listings.
var topicOrder = []string{
	"Differential Expression",
	"WGCNA",
	"ceRNA Network",
	"Prognostic Model",
	"Molecular Subtyping",
	"Immune Infiltration",
	"Single-cell",
	"Mendelian Randomization",
	"GBD Burden & Trends",
	"GBD Risk Factors",
}

var templates = map[string]Template{
	"Differential Expression": {
		Core:   `(differentially expressed genes OR DEGs)`,
		DB:     `AND (TCGA OR GEO OR ArrayExpress)`,
		Expand: `AND (bioinformatic* OR computational) AND (hub genes OR key pathways)`,
	},
	"WGCNA": {
		Core:   `(WGCNA OR "weighted gene co-expression")`,
		Expand: `AND (key module OR hub gene OR co-expression network)`,
	},
	"ceRNA Network": {
		Core:   `(ceRNA OR "competing endogenous RNA")`,
		Expand: `AND (lncRNA OR circRNA) AND (network OR axis OR sponge)`,
	},
	"Prognostic Model": {
		Core:   `((prognostic OR predictive) AND (signature OR model))`,
		DB:     `AND (TCGA OR GEO)`,
		Expand: `AND (LASSO OR "machine learning") AND (survival OR prognosis) AND (nomogram OR risk score)`,
	},
	"Molecular Subtyping": {
		Core:   `("molecular subtype" OR classification OR clustering)`,
		DB:     `AND (TCGA OR ICGC)`,
		Expand: `AND (unsupervised OR "consensus clustering")`,
	},
	"Immune Infiltration": {
		Core:   `("immune infiltration" OR "tumor microenvironment" OR TME)`,
		Expand: `AND (CIBERSORT OR ESTIMATE OR ssGSEA) AND (immunotherapy OR "checkpoint inhibitor")`,
	},
	"Single-cell": {
		Core:   `("single-cell" OR scRNA-seq)`,
		Expand: `AND (heterogeneity OR trajectory OR "cell communication" OR atlas)`,
	},
	"Mendelian Randomization": {
		Core:   `("Mendelian randomization" OR MR)`,
		Expand: `AND (causal OR causality OR "instrumental variable")`,
	},
	"GBD Burden & Trends": {
		Core:   `("burden of disease" OR incidence OR prevalence OR mortality OR DALYs)`,
		Source: `AND ("Global Burden of Disease Study" OR GBD)`,
		Expand: `AND (trends OR patterns OR epidemiology)`,
	},
	"GBD Risk Factors": {
		Core:   `("risk factors" OR attributable OR contribution)`,
		Source: `AND (GBD)`,
	},
}

// Topics returns the known topic keys in display order. The returned slice
// is a copy.
func Topics() []string {
	out := make([]string, len(topicOrder))
	copy(out, topicOrder)
	return out
}

// Lookup returns the template for topic.
func Lookup(topic string) (Template, bool) {
	t, ok := templates[topic]
	return t, ok
}
