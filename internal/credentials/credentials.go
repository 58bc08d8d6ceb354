package credentials

import (
	"crypto/rand"
	"math/big"
)

// Word lists for generating kid-friendly profile handles
var adjectives = []string{
	"happy", "sunny", "brave", "bright", "cool", "swift", "clever", "jolly",
	"mighty", "super", "star", "wild", "lucky", "magic", "cheerful", "daring",
	"eager", "gentle", "lively", "merry", "noble", "quick", "royal", "turbo",
	"zippy", "bold", "cosmic", "epic", "keen", "sharp", "wise", "curious",
}

var nouns = []string{
	"falcon", "tiger", "eagle", "dolphin", "panda", "lion", "wolf", "bear",
	"fox", "hawk", "otter", "phoenix", "comet", "rocket", "scholar", "thinker",
	"puzzler", "explorer", "ranger", "captain", "genius", "meteor", "thunder",
	"lightning", "nova", "quasar", "prism", "cipher", "riddle", "pioneer",
}

// GenerateHandle generates a random handle in the format "adjective-noun"
func GenerateHandle() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}
	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}
	return adjective + "-" + noun, nil
}

// PINLength is the number of digits in a generated login PIN
const PINLength = 4

// GeneratePIN generates a random numeric PIN
func GeneratePIN() (string, error) {
	digits := "0123456789"
	pin := make([]byte, PINLength)
	for i := 0; i < PINLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		pin[i] = digits[num.Int64()]
	}
	return string(pin), nil
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}
	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}
	return slice[num.Int64()], nil
}
