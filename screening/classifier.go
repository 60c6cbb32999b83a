package screening

import (
	"fmt"
	"sort"
	"time"

	"github.com/SaminMaharjan/coughai/logging"
)

// ConditionScore is one scored condition: the raw rule-based score in
// [0, 0.95], the percentage share after normalization, and the
// confidence band derived from the raw score.
type ConditionScore struct {
	Condition   Condition  `json:"condition"`
	Score       float64    `json:"score"`
	Probability float64    `json:"probability"`
	Confidence  Confidence `json:"confidence"`
}

// ClassificationResult ranks every condition for one record, highest
// normalized probability first.
type ClassificationResult struct {
	Scores     []ConditionScore `json:"scores"`
	Dominant   Condition        `json:"dominant"`
	Confidence Confidence       `json:"confidence"`
	Timestamp  time.Time        `json:"timestamp"`
}

// BatchItem pairs one input record with its classification outcome.
// Exactly one of Result and Err is set.
type BatchItem struct {
	Record *Record
	Result *ClassificationResult
	Err    error
}

// Classifier scores analysis records against a fixed rule table. It
// holds no per-call state and is safe for concurrent use once
// constructed.
type Classifier struct {
	rules  []ConditionRules
	logger logging.Logger
}

// NewClassifier creates a classifier with the default rule table
func NewClassifier() *Classifier {
	classifier, _ := NewClassifierWithRules(DefaultRules())
	return classifier
}

// NewClassifierWithRules creates a classifier with a custom rule table.
// The table must contain at least one condition.
func NewClassifierWithRules(rules []ConditionRules) (*Classifier, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: empty rule table", ErrInvalidInput)
	}

	return &Classifier{
		rules: rules,
		logger: logging.WithFields(logging.Fields{
			"component": "condition_classifier",
		}),
	}, nil
}

// Rules returns the classifier's rule table
func (c *Classifier) Rules() []ConditionRules {
	return c.rules
}

// ready reports whether the classifier can score records
func (c *Classifier) ready() bool {
	return c != nil && len(c.rules) > 0
}

// Classify scores one record against every condition in the rule table.
//
// Each condition accumulates the weights of its matching rules, capped
// at 0.95. Conditions are ordered by raw score descending, ties keeping
// table order, then raw scores normalize to percentages of their sum.
// When every raw score is zero the probabilities stay zero and the
// dominant condition is ConditionUnknown with low confidence.
func (c *Classifier) Classify(rec *Record) (*ClassificationResult, error) {
	if !c.ready() {
		return nil, fmt.Errorf("%w: no rule table", ErrNotReady)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: nil record", ErrInvalidInput)
	}
	if err := validateFeatureSet(rec); err != nil {
		return nil, err
	}

	scores := make([]ConditionScore, 0, len(c.rules))
	for _, conditionRules := range c.rules {
		raw := 0.0
		for _, rule := range conditionRules.Rules {
			if rule.Match(rec) {
				raw += rule.Weight
			}
		}
		if raw > maxRawScore {
			raw = maxRawScore
		}

		scores = append(scores, ConditionScore{
			Condition:  conditionRules.Condition,
			Score:      raw,
			Confidence: ConfidenceForScore(raw),
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	total := 0.0
	for _, score := range scores {
		total += score.Score
	}
	if total > 0 {
		for i := range scores {
			scores[i].Probability = scores[i].Score / total * 100
		}
	}

	result := &ClassificationResult{
		Scores:     scores,
		Dominant:   ConditionUnknown,
		Confidence: ConfidenceLow,
		Timestamp:  time.Now(),
	}
	if total > 0 {
		result.Dominant = scores[0].Condition
		result.Confidence = scores[0].Confidence
	}

	c.logger.Debug("Record classified", logging.Fields{
		"dominant":   result.Dominant,
		"confidence": result.Confidence,
		"raw_total":  total,
	})

	return result, nil
}

// ClassifyBatch classifies records independently and returns one item
// per input, in input order. A record that fails flags its own item and
// never disturbs the items around it.
func (c *Classifier) ClassifyBatch(recs []*Record) []BatchItem {
	items := make([]BatchItem, len(recs))
	for i, rec := range recs {
		items[i].Record = rec
		items[i].Result, items[i].Err = c.Classify(rec)
	}
	return items
}

// validateFeatureSet checks that the record's feature set is a whole
// number of frames
func validateFeatureSet(rec *Record) error {
	if rec.NumCoefficients <= 0 {
		if len(rec.MFCC) > 0 {
			return fmt.Errorf("%w: feature set present but coefficient count is %d", ErrInvalidInput, rec.NumCoefficients)
		}
		return nil
	}
	if len(rec.MFCC)%rec.NumCoefficients != 0 {
		return fmt.Errorf("%w: feature set length %d is not a multiple of %d coefficients",
			ErrInvalidInput, len(rec.MFCC), rec.NumCoefficients)
	}
	return nil
}
