package mood

import "time"

// DefaultAffirmation is used when a mood has no affirmations.
const DefaultAffirmation = "You're doing great. Stay present."

var affirmations = map[Mood][]string{
	Happy: {
		"Happiness is not something ready-made. It comes from your own actions. – Dalai Lama",
		"The purpose of our lives is to be happy. – Dalai Lama",
		"Joy is the simplest form of gratitude. – Karl Barth",
		"Let your smile change the world, but don't let the world change your smile.",
		"The most wasted of all days is one without laughter. – E.E. Cummings",
		"Happiness depends upon ourselves. – Aristotle",
	},
	Sad: {
		"Tears come from the heart and not from the brain. – Leonardo da Vinci",
		"Every man has his secret sorrows which the world knows not. – Henry Wadsworth Longfellow",
		"Sadness flies away on the wings of time. – Jean de La Fontaine",
		"The word 'happy' would lose its meaning if it were not balanced by sadness. – Carl Jung",
		"Even a happy life cannot be without a measure of darkness. – Carl Jung",
		"The walls we build around us to keep sadness out also keep out the joy. – Jim Rohn",
	},
	Energetic: {
		"Energy and persistence conquer all things. – Benjamin Franklin",
		"The energy of the mind is the essence of life. – Aristotle",
		"Enthusiasm moves the world. – Arthur Balfour",
		"Passion is energy. Feel the power that comes from focusing on what excites you. – Oprah Winfrey",
		"With the new day comes new strength and new thoughts. – Eleanor Roosevelt",
		"Vitality shows in not only the ability to persist but the ability to start over. – F. Scott Fitzgerald",
	},
	Relaxed: {
		"It's a good idea always to do something relaxing prior to making an important decision in your life. – Paulo Coelho",
		"Sometimes the most productive thing you can do is relax. – Mark Black",
		"Tension is who you think you should be. Relaxation is who you are. – Chinese Proverb",
		"Your calm mind is the ultimate weapon against your challenges. – Bryant McGill",
		"Almost everything will work again if you unplug it for a few minutes, including you. – Anne Lamott",
		"The time to relax is when you don't have time for it. – Sydney J. Harris",
	},
	Focused: {
		"Concentrate all your thoughts upon the work in hand. – Alexander Graham Bell",
		"The successful warrior is the average man, with laser-like focus. – Bruce Lee",
		"Focus is the key to success. – Unknown",
		"The difference between successful people and very successful people is that very successful people say 'no' to almost everything. – Warren Buffett",
		"Success demands singleness of purpose. – Vince Lombardi",
		"Where focus goes, energy flows. – Tony Robbins",
	},
	Romantic: {
		"Love is composed of a single soul inhabiting two bodies. – Aristotle",
		"Being deeply loved by someone gives you strength, while loving someone deeply gives you courage. – Lao Tzu",
		"To love and be loved is to feel the sun from both sides. – David Viscott",
		"Love recognizes no barriers. It jumps hurdles, leaps fences, penetrates walls to arrive at its destination full of hope. – Maya Angelou",
		"The best thing to hold onto in life is each other. – Audrey Hepburn",
		"Love is when the other person's happiness is more important than your own. – H. Jackson Brown, Jr.",
	},
	Angry: {
		"For every minute you remain angry, you give up sixty seconds of peace of mind. – Ralph Waldo Emerson",
		"Speak when you are angry and you will make the best speech you will ever regret. – Ambrose Bierce",
		"Anger is an acid that can do more harm to the vessel in which it is stored than to anything on which it is poured. – Mark Twain",
		"Holding onto anger is like drinking poison and expecting the other person to die. – Buddha",
		"When angry, count to ten before you speak. If very angry, count to one hundred. – Thomas Jefferson",
		"Anger dwells only in the bosom of fools. – Albert Einstein",
	},
}

// AffirmationCount returns how many affirmations exist for m.
func AffirmationCount(m Mood) int {
	return len(affirmations[m])
}

// Affirmation picks an affirmation for m.
// The choice is stable within a UTC day for a given n and shifts by one
// for each increment of n, so successive requests on the same day differ.
func Affirmation(m Mood, at time.Time, n int) string {
	list := affirmations[m]
	if len(list) == 0 {
		return DefaultAffirmation
	}
	day := int(at.Unix() / int64(24*time.Hour/time.Second))
	idx := (day + n) % len(list)
	if idx < 0 {
		idx += len(list)
	}
	return list[idx]
}
