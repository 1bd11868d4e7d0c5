package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/usharma123/ShellHacks2025/pkg/models"
)

// prompt is one system/user pair handed to the completion caller.
type prompt struct {
	system string
	user   string
}

// renderInfo serializes a structured mapping for prompt embedding.
func renderInfo(info models.StructuredResult) string {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(info))
	}
	return string(data)
}

func parseRecordPrompt(startupText string) prompt {
	return prompt{
		system: "Parse freeform startup text into a JSON record. Return only fields you can infer: " +
			"name, description, market_size, growth_rate, competition, market_trends, product_details, " +
			"technology_stack, product_fit, founder_backgrounds, track_records, leadership_skills, vision_alignment.",
		user: "Parse this startup description into JSON fields:\n" + startupText,
	}
}

func quickScreenPrompt(info models.StructuredResult) prompt {
	return prompt{
		system: "Produce a categorical assessment for quick screening. Return JSON with keys: " +
			"industry_growth (Yes/No/N/A), market_size (Small/Medium/Large/N/A), development_pace (Slower/Same/Faster/N/A), " +
			"market_adaptability (Not Adaptable/Somewhat Adaptable/Very Adaptable/N/A), execution_capabilities (Poor/Average/Excellent/N/A), " +
			"funding_amount (Below Average/Average/Above Average/N/A), valuation_change (Decreased/Remained Stable/Increased/N/A), " +
			"investor_backing (Unknown/Recognized/Highly Regarded/N/A), reviews_testimonials (Negative/Mixed/Positive/N/A), " +
			"product_market_fit (Weak/Moderate/Strong/N/A), sentiment_analysis (Negative/Neutral/Positive/N/A), " +
			"innovation_mentions (Rarely/Sometimes/Often/N/A), cutting_edge_technology (No/Mentioned/Emphasized/N/A), " +
			"timing (Too Early/Just Right/Too Late/N/A), prediction (Successful/Unsuccessful).",
		user: "Categorize this startup quickly based on info:\n" + renderInfo(info),
	}
}

func evaluatePrompt(info models.StructuredResult, mode string) prompt {
	return prompt{
		system: "You are a VC scout. Return JSON with keys: market_opportunity, product_innovation, " +
			"founding_team, potential_risks, overall_potential (1-10), investment_recommendation (Invest/Pass), " +
			"confidence (0-1), rationale.",
		user: fmt.Sprintf("Evaluate this startup qualitatively as a scout.\n\nStartup info:\n%s\n\nMode: %s", renderInfo(info), mode),
	}
}

func marketPrompt(info models.StructuredResult, mode string) prompt {
	return prompt{
		system: "You are an experienced market analyst. Return JSON with keys: " +
			"market_size, growth_rate, competition, market_trends, viability_score (1-10).",
		user: fmt.Sprintf("Analyze the startup's market qualitatively based on this info. Be concise but specific.\n\nStartup info:\n%s\n\nMode: %s", renderInfo(info), mode),
	}
}

func productPrompt(info models.StructuredResult, mode string) prompt {
	return prompt{
		system: "You are a senior product analyst. Return JSON with keys: " +
			"features_analysis, tech_stack_evaluation, usp_assessment, " +
			"potential_score (1-10), innovation_score (1-10), market_fit_score (1-10).",
		user: fmt.Sprintf("Analyze the startup's product qualitatively based on this info. Include concrete justifications.\n\nStartup info:\n%s\n\nMode: %s", renderInfo(info), mode),
	}
}

func foundersPrompt(info models.StructuredResult, mode string) prompt {
	return prompt{
		system: "You are a venture partner evaluating founders. Return JSON with keys: " +
			"competency_score (1-10), analysis.",
		user: fmt.Sprintf("Assess the founding team qualitatively based on the info. Give a numeric competency_score and a detailed analysis.\n\nStartup info:\n%s\n\nMode: %s", renderInfo(info), mode),
	}
}

func segmentationPrompt(founderInfo models.StructuredResult) prompt {
	return prompt{
		system: "You categorize founders into L1-L5 based on track record and capabilities. " +
			"Return JSON with key: segmentation (one of L1, L2, L3, L4, L5).",
		user: "Segment the founder/team based on the info:\n" + renderInfo(founderInfo),
	}
}

func ideaFitPrompt(info, founderInfo models.StructuredResult) prompt {
	return prompt{
		system: "Estimate a qualitative founder-idea fit. Return JSON with keys: " +
			"idea_fit (float between 0 and 1), cosine_similarity (float between 0 and 1). " +
			"If you cannot compute exact similarity, produce a reasoned estimate.",
		user: fmt.Sprintf("Given the startup and founder info, estimate compatibility and include brief rationale inside a 'rationale' field.\n\nStartup info:\n%s\n\nFounder info:\n%s", renderInfo(info), renderInfo(founderInfo)),
	}
}

func integratedPrompt(market, product, founder models.StructuredResult, ideaFit, segmentation, prediction any) prompt {
	return prompt{
		system: "You are the chief analyst. Return JSON with keys: overall_score (1-10), IntegratedAnalysis, " +
			"recommendation, outcome. Consider all provided signals but don't over-index on any single one.",
		user: fmt.Sprintf("Integrate the following into a professional qualitative assessment including an overall_score and recommendation.\n\n"+
			"Market Info:\n%s\n\nProduct Info:\n%s\n\nFounder Info:\n%s\n\nFounder-Idea Fit:\n%v\n\nFounder Segmentation:\n%v\n\nModel Prediction:\n%v",
			renderInfo(market), renderInfo(product), renderInfo(founder), ideaFit, segmentation, prediction),
	}
}

func decisionPrompt(prediction, ideaFit, segmentation any) prompt {
	return prompt{
		system: "Make a final qualitative decision based on the signals. Return JSON with keys: " +
			"outcome (Successful/Unsuccessful), probability (0-1), reasoning.",
		user: fmt.Sprintf("Use these inputs to make a decision; be consistent and realistic about probability.\n\n"+
			"Model Prediction: %v\nFounder-Idea Fit: %v\nFounder Segmentation: %v", prediction, ideaFit, segmentation),
	}
}
