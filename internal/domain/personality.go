package domain

// Mood names a personality band keyed on the counter value
type Mood string

const (
	MoodDepressed  Mood = "depressed"
	MoodWorried    Mood = "worried"
	MoodNeutral    Mood = "neutral"
	MoodHappy      Mood = "happy"
	MoodExcited    Mood = "excited"
	MoodOverloaded Mood = "overloaded"
)

type moodBand struct {
	mood      Mood
	threshold int64
	emoji     string
	messages  []string
}

// Highest threshold first; the first band the count reaches wins.
var moodBands = []moodBand{
	{MoodOverloaded, 100, "🤯", []string{
		"MAXIMUM OVERDRIVE!",
		"I can't even count this high! (Just kidding, I totally can)",
		"Warning: Awesome levels approaching maximum!",
		"Is there a speed limit for counting? Asking for a friend.",
	}},
	{MoodExcited, 50, "🤩", []string{
		"Is it hot in here or is it just these high numbers?",
		"I'm so high right now... numerically speaking!",
		"To infinity and beyond! (Terms and conditions may apply)",
		"Big number energy!",
	}},
	{MoodHappy, 10, "😊", []string{
		"Now we're talking! Keep those numbers coming!",
		"I'm positive this is going well!",
		"Up we go! Wheeeee!",
		"High five! ...get it? Because we're counting up? No?",
	}},
	{MoodNeutral, 0, "😐", []string{
		"Zero... perfectly balanced, as all things should be.",
		"I'm neither positive nor negative about this situation.",
		"Is this what meditation feels like?",
		"Zero is my middle name. Actually, it's my only name.",
	}},
	{MoodWorried, -10, "😟", []string{
		"Um, you know negative numbers are still numbers, right?",
		"I'm not negative, I'm just less than zero...",
		"This is fine. Everything is fine. I'm fine.",
		"Maybe we should try counting up for a change?",
	}},
	{MoodDepressed, -50, "😢", []string{
		"I'm feeling really down... like, literally.",
		"Why do you keep decreasing me? What did I ever do to you?",
		"I'm starting to think you have a thing against positive numbers...",
		"Is this what rock bottom feels like? Wait, I can go lower?!",
	}},
}

var (
	fibonacciNumbers = map[int64]bool{1: true, 2: true, 3: true, 5: true, 8: true, 13: true, 21: true, 34: true, 55: true, 89: true}
	powersOfTwo      = map[int64]bool{2: true, 4: true, 8: true, 16: true, 32: true, 64: true, 128: true}

	fibonacciMessages = []string{
		"Fibonacci would be proud! 🌀",
		"Golden ratio vibes! ✨",
		"Mathematical harmony achieved! 📐",
	}
	powerOfTwoMessages = []string{
		"Binary beauty! 🤖",
		"Exponential excellence! 📈",
		"Power overwhelming! ⚡",
	}
	funNumberMessages = map[int64][]string{
		42:  {"The answer to life, the universe, and everything! 🌌", "Don't panic! 👾"},
		69:  {"Nice. 😏", "Hehe... 😎"},
		100: {"Triple digits, baby! 💯", "Perfect score! 🎯"},
		404: {"Counter not found! Just kidding. 🔍", "Error: Too awesome! ⚠️"},
		500: {"Server's getting dizzy! 💫", "Internal awesomeness error! 🎪"},
	}
)

// Picker returns an index in [0, n). It is the only source of randomness
// for the personality helpers.
type Picker func(n int) int

// Personality is the flavor text shown next to a counter
type Personality struct {
	Mood      Mood    `json:"mood"`
	Emoji     string  `json:"emoji"`
	Message   string  `json:"message"`
	Milestone *string `json:"milestone"`
	Reaction  *string `json:"reaction,omitempty"`
}

// PersonalityFor picks the mood band for count and a random message in it.
// Counts below the lowest threshold stay in the lowest band.
func PersonalityFor(count int64, pick Picker) Personality {
	band := moodBands[len(moodBands)-1]
	for _, b := range moodBands {
		if count >= b.threshold {
			band = b
			break
		}
	}

	p := Personality{
		Mood:    band.mood,
		Emoji:   band.emoji,
		Message: band.messages[pick(len(band.messages))],
	}
	if m, ok := MilestoneMessage(count, pick); ok {
		p.Milestone = &m
	}
	return p
}

// MilestoneMessage returns a message when |count| is a Fibonacci number, a
// power of two or one of the fun numbers, checked in that order.
func MilestoneMessage(count int64, pick Picker) (string, bool) {
	abs := count
	if abs < 0 {
		abs = -abs
	}

	switch {
	case fibonacciNumbers[abs]:
		return fibonacciMessages[pick(len(fibonacciMessages))], true
	case powersOfTwo[abs]:
		return powerOfTwoMessages[pick(len(powerOfTwoMessages))], true
	}
	if msgs, ok := funNumberMessages[abs]; ok {
		return msgs[pick(len(msgs))], true
	}
	return "", false
}

// ClickReaction describes a single applied amount
func ClickReaction(amount int64) string {
	switch {
	case amount > 10:
		return "Whoa, big spender! 🤑"
	case amount > 5:
		return "Now we're cooking! 🔥"
	case amount > 0:
		return "Up we go! 🚀"
	case amount < -10:
		return "Ouch, that's a big drop! 📉"
	case amount < -5:
		return "Going down! 🎢"
	case amount < 0:
		return "Down we go! 🔽"
	}
	return "Interesting choice! 🤔"
}
