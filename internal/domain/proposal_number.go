package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ProposalNumberPrefix retorna o prefixo "YYYY/MM/" do mês de referência
func ProposalNumberPrefix(reference time.Time) string {
	return fmt.Sprintf("%04d/%02d/", reference.Year(), int(reference.Month()))
}

func FormatProposalNumber(reference time.Time, sequence int) string {
	return fmt.Sprintf("%s%04d", ProposalNumberPrefix(reference), sequence)
}

// ParseProposalSequence extrai a sequência de um número "YYYY/MM/NNNN"
func ParseProposalSequence(number string) (int, error) {
	parts := strings.Split(number, "/")
	if len(parts) != 3 {
		return 0, fmt.Errorf("número de proposta inválido: %q", number)
	}

	sequence, err := strconv.Atoi(parts[2])
	if err != nil || sequence < 0 {
		return 0, fmt.Errorf("sequência inválida no número de proposta %q", number)
	}

	return sequence, nil
}
