package pipeline

import "github.com/rishta-council/brokerd/pkg/config"

// Well-known context keys shared between the composer and the
// orchestration engine.
const (
	KeyHistory      = "history"
	KeyGroomID      = "groom_id"
	KeyBrideID      = "bride_id"
	KeyExtractedIDs = "extracted_ids"
	KeyGroomCheck   = "groom_check"
	KeyBrideCheck   = "bride_check"
	KeyGroomProfile = "groom_profile"
	KeyBrideProfile = "bride_profile"
	KeyHoroscope    = "horoscope"
	KeyVerdict      = "verdict"
	KeyGroomDemands = "groom_demands"
	KeyBrideDemands = "bride_demands"
	KeyProposal     = "proposal"
)

// Stage names.
const (
	StageVettingPipeline = "VettingPipeline"
	StageParser          = "Parser"
	StageVettingCouncil  = "VettingCouncil"
	StageDetective       = "Detective"
	StageAstrologer      = "Astrologer"
	StageSynthesizer     = "Synthesizer"
	StageRepCouncil      = "RepCouncil"
	StageGroomRep        = "GroomRep"
	StageBrideRep        = "BrideRep"
	StageProposal        = "Proposal"
)

// ExtractedIDsSchema constrains the parser's output.
const ExtractedIDsSchema = `{
	"type": "object",
	"required": ["groom_id", "bride_id"],
	"properties": {
		"groom_id": {"type": "string"},
		"bride_id": {"type": "string"}
	},
	"additionalProperties": false
}`

// VerdictSchema constrains the synthesizer's output to the binding
// PASS/FAIL decision.
const VerdictSchema = `{
	"type": "object",
	"required": ["status", "summary"],
	"properties": {
		"status": {"type": "string", "enum": ["PASS", "FAIL"]},
		"summary": {"type": "string"}
	},
	"additionalProperties": false
}`

// ProposalSchema constrains the compromise proposal.
const ProposalSchema = `{
	"type": "object",
	"required": ["proposal_loc", "bride_career"],
	"properties": {
		"proposal_loc": {"type": "string"},
		"bride_career": {"type": "string"}
	},
	"additionalProperties": false
}`

// Composer builds stage graphs from the static topology description. Every
// compose call returns a structurally fresh graph with no shared mutable
// sub-stage, so concurrent sessions never observe each other's in-flight
// state.
type Composer struct {
	instructions config.StageInstructions
	modelFast    string
	modelSmart   string
}

// NewComposer captures the topology configuration.
func NewComposer(cfg *config.Config) *Composer {
	return &Composer{
		instructions: cfg.Stages,
		modelFast:    cfg.Reasoning.ModelFast,
		modelSmart:   cfg.Reasoning.ModelSmart,
	}
}

// VettingPipeline composes Parser → Parallel{Detective, Astrologer} →
// Synthesizer as one sequential stage. The caller seeds the input context
// with KeyHistory.
func (c *Composer) VettingPipeline() *Stage {
	parser := ReasoningLeaf(StageParser, ReasoningBinding{
		Model:        c.modelFast,
		Instruction:  c.instructions.Parser,
		ContextKeys:  []string{KeyHistory},
		OutputKey:    KeyExtractedIDs,
		OutputSchema: ExtractedIDsSchema,
	})

	detective := Sequential(StageDetective,
		ToolLeaf(StageDetective+".groom", ToolBinding{
			Tool:      "background_check",
			Args:      map[string]ArgSource{"id": FromContext(KeyExtractedIDs + ".groom_id")},
			OutputKey: KeyGroomCheck,
		}),
		ToolLeaf(StageDetective+".bride", ToolBinding{
			Tool:      "background_check",
			Args:      map[string]ArgSource{"id": FromContext(KeyExtractedIDs + ".bride_id")},
			OutputKey: KeyBrideCheck,
		}),
	)

	astrologer := Sequential(StageAstrologer,
		ToolLeaf(StageAstrologer+".groom", ToolBinding{
			Tool:      "profile_details",
			Args:      map[string]ArgSource{"id": FromContext(KeyExtractedIDs + ".groom_id")},
			OutputKey: KeyGroomProfile,
		}),
		ToolLeaf(StageAstrologer+".bride", ToolBinding{
			Tool:      "profile_details",
			Args:      map[string]ArgSource{"id": FromContext(KeyExtractedIDs + ".bride_id")},
			OutputKey: KeyBrideProfile,
		}),
		ToolLeaf(StageAstrologer+".match", ToolBinding{
			Tool: "horoscope_compatibility",
			Args: map[string]ArgSource{
				"sign1": FromContext(KeyGroomProfile + ".horoscope"),
				"sign2": FromContext(KeyBrideProfile + ".horoscope"),
			},
			OutputKey: KeyHoroscope,
		}),
	)

	synthesizer := ReasoningLeaf(StageSynthesizer, ReasoningBinding{
		Model:        c.modelSmart,
		Instruction:  c.instructions.Synthesizer,
		ContextKeys:  []string{KeyGroomCheck, KeyBrideCheck, KeyHoroscope},
		OutputKey:    KeyVerdict,
		OutputSchema: VerdictSchema,
	})

	return Sequential(StageVettingPipeline,
		parser,
		Parallel(StageVettingCouncil, detective, astrologer),
		synthesizer,
	)
}

// RepCouncil composes the groom and bride representatives as a parallel
// group; each is a pure read of its side's profile, so there is no ordering
// dependency between them. The caller seeds KeyGroomID and KeyBrideID.
func (c *Composer) RepCouncil() *Stage {
	groomRep := Sequential(StageGroomRep,
		ToolLeaf(StageGroomRep+".profile", ToolBinding{
			Tool:      "profile_details",
			Args:      map[string]ArgSource{"id": FromContext(KeyGroomID)},
			OutputKey: KeyGroomProfile,
		}),
		ReasoningLeaf(StageGroomRep+".demands", ReasoningBinding{
			Model:       c.modelFast,
			Instruction: c.instructions.GroomRep,
			ContextKeys: []string{KeyGroomProfile},
			OutputKey:   KeyGroomDemands,
		}),
	)

	brideRep := Sequential(StageBrideRep,
		ToolLeaf(StageBrideRep+".profile", ToolBinding{
			Tool:      "profile_details",
			Args:      map[string]ArgSource{"id": FromContext(KeyBrideID)},
			OutputKey: KeyBrideProfile,
		}),
		ReasoningLeaf(StageBrideRep+".demands", ReasoningBinding{
			Model:       c.modelFast,
			Instruction: c.instructions.BrideRep,
			ContextKeys: []string{KeyBrideProfile},
			OutputKey:   KeyBrideDemands,
		}),
	)

	return Parallel(StageRepCouncil, groomRep, brideRep)
}

// ProposalStage composes the compromise-proposal judgment. The caller
// provides the representatives' outputs in the input context.
func (c *Composer) ProposalStage() *Stage {
	return ReasoningLeaf(StageProposal, ReasoningBinding{
		Model:        c.modelSmart,
		Instruction:  c.instructions.Proposal,
		ContextKeys:  []string{KeyGroomProfile, KeyBrideProfile, KeyGroomDemands, KeyBrideDemands},
		OutputKey:    KeyProposal,
		OutputSchema: ProposalSchema,
	})
}
