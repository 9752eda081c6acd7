package games

import (
	"fmt"
	"math"
	"strings"
)

// FlipChoice is the side a player calls in the flip game. It is display-only
// and has no effect on the odds.
type FlipChoice string

const (
	FlipHeads FlipChoice = "heads"
	FlipTails FlipChoice = "tails"
)

// Outcome is the verdict for a single bet. Payout is the gross amount returned
// to the player in minor units (zero on a loss); the caller derives the net
// ledger delta from it. Detail is ready-to-render result text.
type Outcome struct {
	Won        bool
	Payout     int64
	Detail     string
	Multiplier float64  // crash multiplier, when applicable
	Reels      []string // slot reels, when applicable
	Roll       int      // dice roll, when applicable
}

// Engine resolves bets for every game variant. It is pure: no state beyond
// the injected randomness source, no I/O.
type Engine struct {
	cfg Config
	rng Rand
}

// NewEngine creates a game engine with the given tables and randomness source.
func NewEngine(cfg Config, rng Rand) *Engine {
	return &Engine{cfg: cfg, rng: rng}
}

// Config returns the engine's game tables.
func (e *Engine) Config() Config {
	return e.cfg
}

// Flip resolves a coin flip bet. A small chance of a forced loss comes first,
// then the win roll. The player's choice only flavors the result text.
func (e *Engine) Flip(bet int64, choice FlipChoice) *Outcome {
	cfg := e.cfg.Flip

	if e.rng.Float64() < cfg.SpecialEventChance {
		return &Outcome{
			Detail: "🍌🌀 Special event! The banana flew into space!",
		}
	}

	if e.rng.Float64() < cfg.WinChance {
		payout := mulAmount(bet, cfg.Multiplier)
		emoji := "🍌"
		if choice != FlipHeads {
			emoji = "🐵"
		}
		return &Outcome{
			Won:    true,
			Payout: payout,
			Detail: fmt.Sprintf("%s It landed your way!", emoji),
		}
	}

	emoji := "🐵"
	if choice != FlipHeads {
		emoji = "🍌"
	}
	return &Outcome{
		Detail: fmt.Sprintf("%s It landed the other way", emoji),
	}
}

// Crash resolves a crash bet: 60% instant crash at x1.00, a rare high
// multiplier in [1.5, 5.0], otherwise a low multiplier in [1.0, 1.1] the
// player cashes out of 80% of the time.
func (e *Engine) Crash(bet int64) *Outcome {
	cfg := e.cfg.Crash

	if e.rng.Float64() < cfg.InstantCrashChance {
		return &Outcome{
			Multiplier: 1.0,
			Detail:     "💥 Instant crash! x1.00",
		}
	}

	if e.rng.Float64() < cfg.HighChance {
		m := roundMultiplier(cfg.MinHighMultiplier + e.rng.Float64()*(cfg.MaxHighMultiplier-cfg.MinHighMultiplier))
		return &Outcome{
			Won:        true,
			Payout:     mulAmount(bet, m),
			Multiplier: m,
			Detail:     fmt.Sprintf("🚀 To the moon! x%.2f", m),
		}
	}

	m := roundMultiplier(cfg.LowMultiplierMin + e.rng.Float64()*(cfg.LowMultiplierMax-cfg.LowMultiplierMin))

	// The cash-out roll only happens once the multiplier has moved off 1.00.
	if m > cfg.LowMultiplierMin && e.rng.Float64() < cfg.CashOutChance {
		return &Outcome{
			Won:        true,
			Payout:     mulAmount(bet, m),
			Multiplier: m,
			Detail:     fmt.Sprintf("✅ Cashed out at x%.2f", m),
		}
	}

	return &Outcome{
		Multiplier: m,
		Detail:     fmt.Sprintf("💥 Crashed at x%.2f", m),
	}
}

// Slot spins three reels over the symbol alphabet. Three jackpot symbols pay
// the jackpot multiplier, any other triple the triple multiplier, exactly two
// matching symbols the pair multiplier.
func (e *Engine) Slot(bet int64) *Outcome {
	cfg := e.cfg.Slot

	reels := make([]string, 3)
	for i := range reels {
		reels[i] = cfg.Symbols[e.rng.Intn(len(cfg.Symbols))]
	}

	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		if reels[0] == cfg.JackpotSymbol {
			return &Outcome{
				Won:    true,
				Payout: mulAmount(bet, cfg.JackpotMultiplier),
				Reels:  reels,
				Detail: fmt.Sprintf("🎰 JACKPOT! 3x%s", reels[0]),
			}
		}
		return &Outcome{
			Won:    true,
			Payout: mulAmount(bet, cfg.TripleMultiplier),
			Reels:  reels,
			Detail: fmt.Sprintf("🎰 Big win! 3x%s", reels[0]),
		}
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		return &Outcome{
			Won:    true,
			Payout: mulAmount(bet, cfg.PairMultiplier),
			Reels:  reels,
			Detail: "🎰 Two of a kind!",
		}
	default:
		return &Outcome{
			Reels:  reels,
			Detail: fmt.Sprintf("🎰 %s", strings.Join(reels, " ")),
		}
	}
}

// Dice rolls one die; the bet wins only on an exact match with the guess.
func (e *Engine) Dice(bet int64, guess int) (*Outcome, error) {
	cfg := e.cfg.Dice

	if guess < 1 || guess > cfg.Sides {
		return nil, fmt.Errorf("dice guess must be between 1 and %d, got %d", cfg.Sides, guess)
	}

	roll := e.rng.Intn(cfg.Sides) + 1
	if roll == guess {
		return &Outcome{
			Won:    true,
			Payout: mulAmount(bet, cfg.Multiplier),
			Roll:   roll,
			Detail: fmt.Sprintf("🎲 Rolled %d, you guessed it!", roll),
		}, nil
	}
	return &Outcome{
		Roll:   roll,
		Detail: fmt.Sprintf("🎲 Rolled %d, you guessed %d", roll, guess),
	}, nil
}

// Jackpot buys floor(bet / ticket price) tickets and draws each independently,
// stopping at the first win. Only the ticket price is at stake per draw: a win
// pays ticket price times the multiplier no matter how many tickets were
// bought, and losing every draw pays nothing.
func (e *Engine) Jackpot(bet int64) *Outcome {
	cfg := e.cfg.Jackpot

	tickets := int(bet / cfg.TicketPrice)
	for i := 0; i < tickets; i++ {
		if e.rng.Float64() < cfg.WinChance {
			return &Outcome{
				Won:    true,
				Payout: mulAmount(cfg.TicketPrice, cfg.Multiplier),
				Detail: "💰 JACKPOT!!!",
			}
		}
	}
	return &Outcome{
		Detail: fmt.Sprintf("💰 %d tickets, no luck. Try again!", tickets),
	}
}

// roundMultiplier rounds to two decimal places, matching the displayed value
// so the payout and the message never disagree.
func roundMultiplier(m float64) float64 {
	return math.Round(m*100) / 100
}

// mulAmount applies a float multiplier to a minor-unit amount.
func mulAmount(amount int64, m float64) int64 {
	return int64(math.Round(float64(amount) * m))
}
