// Package ratelimit limita tentativas por chave em janelas fixas.
//
// A janela é fixa e não deslizante: perto da virada de uma janela um cliente
// consegue até 2×Attempts requisições em sequência.
package ratelimit

import (
	"context"
	"time"
)

// Rule define quantas tentativas são aceitas por janela para um prefixo
type Rule struct {
	Prefix   string
	Attempts int
	Window   time.Duration
}

func (r Rule) Key(identifier string) string {
	return r.Prefix + ":" + identifier
}

// Disabled indica uma regra sem limite
func (r Rule) Disabled() bool {
	return r.Attempts <= 0 || r.Window <= 0
}

// Limiter decide se mais uma tentativa é aceita para a chave da regra
type Limiter interface {
	Check(ctx context.Context, rule Rule, identifier string) (bool, error)
}

// Rules agrupa as regras usadas pelas ações da API
type Rules struct {
	SignIn   Rule
	SignUp   Rule
	Mutation Rule
}

func DefaultRules() Rules {
	return Rules{
		SignIn:   Rule{Prefix: "signin", Attempts: 5, Window: 10 * time.Minute},
		SignUp:   Rule{Prefix: "signup", Attempts: 3, Window: time.Hour},
		Mutation: Rule{Prefix: "mutation", Attempts: 30, Window: time.Minute},
	}
}
