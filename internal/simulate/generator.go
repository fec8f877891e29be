package simulate

import (
	"crypto/rand"
	"math/big"
)

// Phrase pools for synthetic visitor utterances. Buckets roughly match the
// signal categories the engine extracts, plus neutral chatter.
var phrasePools = [][]string{
	{
		"How much does this cost?",
		"What's your pricing for a small team?",
		"Is it expensive to run at scale?",
	},
	{
		"How do we get started?",
		"I want to buy this for my org.",
		"Where do I sign up?",
	},
	{
		"Can I get a demo of the reporting?",
		"Is there a free trial?",
		"Show me how the integration works.",
	},
	{
		"How does this compare to what we use today?",
		"What's the alternative if this doesn't fit?",
	},
	{
		"When could we go live?",
		"How long does onboarding take? We need this asap.",
	},
	{
		"Does it have an API?",
		"Can it export to CSV?",
		"What feature handles permissions?",
	},
	{
		"I need to convince my manager.",
		"Our team would all use this.",
	},
	{
		"Interesting.",
		"Tell me more.",
		"That makes sense.",
		"Okay.",
	},
}

// Outcomes posted back for received triggers, weighted toward shown.
var outcomePool = []string{"shown", "shown", "shown", "clicked", "dismissed", "converted"}

// Interest tags attached to roughly one turn in three, standing in for the
// web app's conversation-analysis layer.
var interestPool = []string{"integrations", "permissions", "reporting", "api", "pricing tiers"}

// randomInt returns a uniform random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// nextUtterance picks a random phrase from a random pool.
func nextUtterance() string {
	pool := phrasePools[randomInt(len(phrasePools))]
	return pool[randomInt(len(pool))]
}

// nextOutcome picks a weighted random outcome.
func nextOutcome() string {
	return outcomePool[randomInt(len(outcomePool))]
}

// nextInterests returns a single random interest tag about a third of the
// time, and nil otherwise.
func nextInterests() []string {
	if randomInt(3) != 0 {
		return nil
	}
	return []string{interestPool[randomInt(len(interestPool))]}
}
