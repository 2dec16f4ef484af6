package utils

import "github.com/scythe504/impostor-backend/internal"

// DefaultQuestionPairs is the built-in catalog used when no questions file is
// configured. Both questions of a pair should invite answers that look alike.
var DefaultQuestionPairs = []internal.QuestionPair{
	{Normal: "What's your go-to comfort food?", Impostor: "What's a food you pretend to like?", Category: "food"},
	{Normal: "Name a movie you could watch on repeat.", Impostor: "Name a movie you walked out of.", Category: "entertainment"},
	{Normal: "Which superpower would you pick?", Impostor: "Which superpower would be the most useless?", Category: "powers"},
	{Normal: "What sound drives you up the wall?", Impostor: "What song can you not stand?", Category: "life"},
	{Normal: "What would you grab first in a zombie outbreak?", Impostor: "What's the worst gift you've ever received?", Category: "stuff"},
	{Normal: "How many hours of sleep do you need?", Impostor: "How many coffees is too many in a day?", Category: "numbers"},
	{Normal: "How many pets would be too many?", Impostor: "How many times a week do you cook?", Category: "numbers"},
	{Normal: "Which sport do you enjoy watching?", Impostor: "Which sport is the most overrated?", Category: "sports"},
	{Normal: "Which hobby would you pick up with more free time?", Impostor: "Which hobby do people only pretend to enjoy?", Category: "hobbies"},
	{Normal: "Which job would you do for free?", Impostor: "Which job sounds fun but is secretly awful?", Category: "work"},
	{Normal: "What would your last meal be?", Impostor: "What did you have for breakfast?", Category: "food"},
	{Normal: "Which cartoon character could you beat in a fight?", Impostor: "Which cartoon character is the most underrated?", Category: "entertainment"},
	{Normal: "Which sport deserves a spot in the Olympics?", Impostor: "What's the strangest sport you know of?", Category: "sports"},
	{Normal: "Which phrase would you get tattooed?", Impostor: "What would you whisper with your final breath?", Category: "life"},
}

// RandomQuestionPair picks a pair uniformly at random.
func RandomQuestionPair(pairs []internal.QuestionPair, intn func(int) int) internal.QuestionPair {
	if len(pairs) == 0 {
		return internal.QuestionPair{}
	}
	return pairs[intn(len(pairs))]
}
