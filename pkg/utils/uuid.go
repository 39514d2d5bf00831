package utils

import (
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const codeCharacters = "ABCDEFGHIJKLMNPQRSTUVWXYZ123456789"

func NewID() string {
	return uuid.NewString()
}

// GenerateCode gera um código curto em maiúsculas, sem 0 e O para evitar confusão na leitura
func GenerateCode(size int) (string, error) {
	return gonanoid.Generate(codeCharacters, size)
}
