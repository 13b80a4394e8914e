package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/lexicon"
)

const (
	ruleOpinionConfidence = 0.6

	// DisagreementThreshold is the consensus score below which dissent is described
	DisagreementThreshold = 0.8

	// tier thresholds as fractions of the opinion count, compared in integers
	// so ratios such as 0.3-0.1 cannot fall just below a boundary
	dominantNum, dominantDen   = 3, 5
	leaningNum, leaningDen     = 1, 5
	neutralNum, neutralDen     = 1, 2
	uncertainNum, uncertainDen = 2, 5
)

// ConsensusScorer scores agreement on a topic and ranks its decisions
type ConsensusScorer struct {
	res *Resources
}

// NewConsensusScorer creates a consensus scorer
func NewConsensusScorer(res *Resources) *ConsensusScorer {
	return &ConsensusScorer{res: res}
}

// Score classifies the polarity of every topic utterance, scores the topic
// and returns the decisions stamped with the result, highest score first.
func (c *ConsensusScorer) Score(ctx context.Context, topic entities.TopicItem, utterances []entities.Utterance, decisions []entities.Decision) (entities.Consensus, []entities.Decision) {
	opinions := c.classify(ctx, utterances)
	consensus := scoreOpinions(opinions)

	if len(opinions) > 0 && consensus.Score < DisagreementThreshold {
		consensus.Disagreement = c.disagreement(ctx, topic, opinions)
	}

	ranked := make([]entities.Decision, len(decisions))
	for i, d := range decisions {
		d.ConsensusLevel = consensus.Level
		d.ConsensusScore = consensus.Score
		d.AgreementLevel = consensus.AgreementLevel
		d.DisagreementDetails = consensus.Disagreement
		ranked[i] = d
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ConsensusScore > ranked[j].ConsensusScore
	})
	return consensus, ranked
}

func (c *ConsensusScorer) classify(ctx context.Context, utterances []entities.Utterance) []entities.OpinionRecord {
	if len(utterances) == 0 {
		return []entities.OpinionRecord{}
	}

	opinions := make([]entities.OpinionRecord, len(utterances))
	for i, u := range utterances {
		opinions[i] = entities.OpinionRecord{
			Speaker:   speakerName(u.Speaker),
			Text:      u.Text,
			Timestamp: u.Start,
		}
	}

	labeled, _, err := runChain(ctx, c.res, OpClassifyOpinions, c.res.OpinionStrategies,
		func(ctx context.Context, s OpinionStrategy) ([]entities.OpinionRecord, error) {
			return s.Classify(ctx, opinions)
		})
	if err != nil {
		// only reachable with a chain that lacks the rule strategy
		labeled, _ = (&ruleOpinionStrategy{lex: c.res.Lexicon}).Classify(ctx, opinions)
	}
	return labeled
}

func (c *ConsensusScorer) disagreement(ctx context.Context, topic entities.TopicItem, opinions []entities.OpinionRecord) *entities.DisagreementDetails {
	negatives := make([]entities.OpinionRecord, 0)
	for _, op := range opinions {
		if op.Polarity == entities.PolarityNegative {
			negatives = append(negatives, op)
		}
	}

	details, _, err := runChain(ctx, c.res, OpDisagreement, c.res.DisagreementStrategies,
		func(ctx context.Context, s DisagreementStrategy) (*entities.DisagreementDetails, error) {
			return s.Summarize(ctx, topic.Title, negatives)
		})
	if err != nil {
		details, _ = (&ruleDisagreementStrategy{lex: c.res.Lexicon}).Summarize(ctx, topic.Title, negatives)
	}
	return details
}

// scoreOpinions applies the tiered consensus rule to polarity ratios
func scoreOpinions(opinions []entities.OpinionRecord) entities.Consensus {
	out := entities.Consensus{
		Level:    entities.ConsensusUnclear,
		Opinions: opinions,
	}
	if len(opinions) == 0 {
		out.Opinions = []entities.OpinionRecord{}
		out.Justification = "no opinions were expressed on this topic"
		return out
	}

	counts := make(map[entities.Polarity]int, 4)
	for _, op := range opinions {
		counts[op.Polarity]++
	}
	pos := counts[entities.PolarityPositive]
	neg := counts[entities.PolarityNegative]
	neu := counts[entities.PolarityNeutral]
	unc := counts[entities.PolarityUncertain]

	level, score, justification := tierConsensus(pos, neg, neu, unc)
	score = clamp01(round2(score))

	total := float64(len(opinions))
	out.Level = level
	out.Score = score
	out.AgreementLevel = int(math.Round(score * 100))
	out.Justification = justification
	out.OpinionCount = len(opinions)
	out.PositiveRatio = round2(float64(pos) / total)
	out.NegativeRatio = round2(float64(neg) / total)
	out.NeutralRatio = round2(float64(neu) / total)
	out.UncertainRatio = round2(float64(unc) / total)
	return out
}

// tierConsensus evaluates the tiers in order; the first match wins.
// Tier membership is decided on the counts, scores on the ratios.
func tierConsensus(pos, neg, neu, unc int) (entities.ConsensusLevel, float64, string) {
	total := pos + neg + neu + unc
	if total == 0 {
		return entities.ConsensusUnclear, 0, "no opinions were expressed on this topic"
	}
	ft := float64(total)
	p, n, u, q := float64(pos)/ft, float64(neg)/ft, float64(neu)/ft, float64(unc)/ft
	gap := pos - neg
	if gap < 0 {
		gap = -gap
	}

	switch {
	case atLeast(max(pos, neg), total, dominantNum, dominantDen):
		if pos >= neg {
			return entities.ConsensusHigh, p + 0.3*u, fmt.Sprintf(
				"positive opinions at %s, exceeding negative at %s, indicating clear consensus", pct(p), pct(n))
		}
		return entities.ConsensusHigh, n + 0.3*u, fmt.Sprintf(
			"negative opinions at %s, exceeding positive at %s, indicating clear opposition", pct(n), pct(p))
	case atLeast(gap, total, leaningNum, leaningDen):
		return entities.ConsensusMedium, 0.6 + 0.2*float64(gap)/ft, fmt.Sprintf(
			"positive opinions at %s against negative at %s, indicating a clear leaning", pct(p), pct(n))
	case atLeast(neu, total, neutralNum, neutralDen):
		return entities.ConsensusMedium, 0.5, fmt.Sprintf(
			"neutral opinions at %s, indicating the topic is still under consideration", pct(u))
	case atLeast(unc, total, uncertainNum, uncertainDen):
		return entities.ConsensusLow, 0.3, fmt.Sprintf(
			"uncertain opinions at %s, indicating unresolved questions", pct(q))
	default:
		return entities.ConsensusLow, math.Min(p, n) + 0.2*u, fmt.Sprintf(
			"opinions split between positive at %s and negative at %s, with no clear consensus", pct(p), pct(n))
	}
}

// atLeast reports whether count/total >= num/den
func atLeast(count, total, num, den int) bool {
	return count*den >= total*num
}

func pct(x float64) string {
	return fmt.Sprintf("%.0f%%", x*100)
}

// classifyPolarity labels text by counting sentiment cues
func classifyPolarity(lex *lexicon.Lexicon, text string) (entities.Polarity, string) {
	pos := lex.CountMatches(text, lex.PositiveCues)
	neg := lex.CountMatches(text, lex.NegativeCues)
	neu := lex.CountMatches(text, lex.NeutralCues)
	reason := fmt.Sprintf("%d positive, %d negative, %d neutral cues", pos, neg, neu)

	switch {
	case pos > neg && pos > 0:
		return entities.PolarityPositive, reason
	case neg > pos && neg > 0:
		return entities.PolarityNegative, reason
	case neu > 0:
		return entities.PolarityNeutral, reason
	default:
		return entities.PolarityUncertain, reason
	}
}
