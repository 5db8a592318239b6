package eval

import (
	"errors"

	"github.com/mikecarlton/qcalc/internal/bignum"
	"github.com/mikecarlton/qcalc/internal/dice"
	"github.com/mikecarlton/qcalc/internal/parser"
	"github.com/mikecarlton/qcalc/internal/value"
)

func evalDiceLit(e *parser.Expr) (value.Value, error) {
	d, err := dice.Build(e.DiceCount, e.DiceSides)
	if err != nil {
		return value.Value{}, mapDiceErr(err)
	}
	return value.FromDist(d), nil
}

// rollDist samples one outcome from d via c.Random, per spec.md §4.6.
func rollDist(c *Context, d *value.Dist) (value.Value, error) {
	if c.Random == nil {
		return value.Value{}, errf(KindRandomUnavailable, "no random source configured")
	}
	outcome, err := dice.Sample(d, c.Random)
	if err != nil {
		return value.Value{}, mapDiceErr(err)
	}
	return numberFromRat(bignum.MustExact(outcome)), nil
}

func mapDiceErr(err error) error {
	var de *dice.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case dice.ErrTooLarge:
			return errf(KindOverflowGuard, "%s", de.Message)
		case dice.ErrRandomUnavailable:
			return errf(KindRandomUnavailable, "%s", de.Message)
		default:
			return errf(KindDomainError, "%s", de.Message)
		}
	}
	return errf(KindDomainError, "%s", err.Error())
}
