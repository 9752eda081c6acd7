package games

import (
	"fmt"
)

// Type identifies a game variant
type Type string

const (
	TypeFlip    Type = "flip"
	TypeCrash   Type = "crash"
	TypeSlot    Type = "slot"
	TypeDice    Type = "dice"
	TypeJackpot Type = "jackpot"
)

// All lists every game variant in menu order.
var All = []Type{TypeFlip, TypeCrash, TypeSlot, TypeDice, TypeJackpot}

// FlipConfig holds the probability table for the coin flip game
type FlipConfig struct {
	Name               string
	WinChance          float64
	Multiplier         float64
	SpecialEventChance float64
	MinBet             int64
}

// CrashConfig holds the probability table for the crash game
type CrashConfig struct {
	Name               string
	InstantCrashChance float64
	HighChance         float64
	MinHighMultiplier  float64
	MaxHighMultiplier  float64
	LowMultiplierMin   float64
	LowMultiplierMax   float64
	CashOutChance      float64
	MinBet             int64
}

// SlotConfig holds the payout table for the slot machine
type SlotConfig struct {
	Name              string
	Symbols           []string
	JackpotSymbol     string
	JackpotMultiplier float64
	TripleMultiplier  float64
	PairMultiplier    float64
	MinBet            int64
}

// DiceConfig holds the payout table for the dice guess game
type DiceConfig struct {
	Name       string
	Sides      int
	Multiplier float64
	MinBet     int64
}

// JackpotConfig holds the ticket lottery parameters. TicketPrice is in minor
// units; a win pays TicketPrice * Multiplier regardless of tickets bought.
type JackpotConfig struct {
	Name        string
	TicketPrice int64
	WinChance   float64
	Multiplier  float64
	MinBet      int64
}

// Config bundles the immutable per-game tables, loaded once at startup.
type Config struct {
	Flip    FlipConfig
	Crash   CrashConfig
	Slot    SlotConfig
	Dice    DiceConfig
	Jackpot JackpotConfig
}

// DefaultConfig returns the production probability tables.
func DefaultConfig() Config {
	return Config{
		Flip: FlipConfig{
			Name:               "🎯 Monkey Flip",
			WinChance:          0.49,
			Multiplier:         2.0,
			SpecialEventChance: 0.015,
			MinBet:             100,
		},
		Crash: CrashConfig{
			Name:               "🚀 Banana Crash",
			InstantCrashChance: 0.60,
			HighChance:         0.02,
			MinHighMultiplier:  1.5,
			MaxHighMultiplier:  5.0,
			LowMultiplierMin:   1.0,
			LowMultiplierMax:   1.1,
			CashOutChance:      0.80,
			MinBet:             100,
		},
		Slot: SlotConfig{
			Name:              "🎰 Banana Slots",
			Symbols:           []string{"🍌", "🐵", "⭐", "💎", "🎯", "💰", "🎰", "🍀"},
			JackpotSymbol:     "🍌",
			JackpotMultiplier: 50,
			TripleMultiplier:  20,
			PairMultiplier:    1.5,
			MinBet:            100,
		},
		Dice: DiceConfig{
			Name:       "🎲 Banana Dice",
			Sides:      6,
			Multiplier: 3.0,
			MinBet:     100,
		},
		Jackpot: JackpotConfig{
			Name:        "💰 Jackpot",
			TicketPrice: 100,
			WinChance:   0.01,
			Multiplier:  100.0,
			MinBet:      100,
		},
	}
}

// Name returns the display name for a game type.
func (c Config) Name(t Type) string {
	switch t {
	case TypeFlip:
		return c.Flip.Name
	case TypeCrash:
		return c.Crash.Name
	case TypeSlot:
		return c.Slot.Name
	case TypeDice:
		return c.Dice.Name
	case TypeJackpot:
		return c.Jackpot.Name
	}
	return string(t)
}

// MinBet returns the minimum bet for a game type in minor units.
func (c Config) MinBet(t Type) int64 {
	switch t {
	case TypeFlip:
		return c.Flip.MinBet
	case TypeCrash:
		return c.Crash.MinBet
	case TypeSlot:
		return c.Slot.MinBet
	case TypeDice:
		return c.Dice.MinBet
	case TypeJackpot:
		return c.Jackpot.MinBet
	}
	return 0
}

// Validate checks the tables against the engine's contracts.
func (c Config) Validate() error {
	if c.Flip.WinChance <= 0 || c.Flip.WinChance >= 1 {
		return fmt.Errorf("flip win chance must be in (0, 1), got %v", c.Flip.WinChance)
	}
	if c.Flip.SpecialEventChance < 0 || c.Flip.SpecialEventChance >= 1 {
		return fmt.Errorf("flip special event chance must be in [0, 1), got %v", c.Flip.SpecialEventChance)
	}
	if c.Flip.Multiplier <= 1 {
		return fmt.Errorf("flip multiplier must exceed 1, got %v", c.Flip.Multiplier)
	}
	if c.Crash.InstantCrashChance < 0 || c.Crash.InstantCrashChance >= 1 {
		return fmt.Errorf("crash instant chance must be in [0, 1), got %v", c.Crash.InstantCrashChance)
	}
	if c.Crash.MinHighMultiplier >= c.Crash.MaxHighMultiplier {
		return fmt.Errorf("crash high multiplier range is empty: [%v, %v]", c.Crash.MinHighMultiplier, c.Crash.MaxHighMultiplier)
	}
	if c.Crash.LowMultiplierMin >= c.Crash.LowMultiplierMax {
		return fmt.Errorf("crash low multiplier range is empty: [%v, %v]", c.Crash.LowMultiplierMin, c.Crash.LowMultiplierMax)
	}
	if len(c.Slot.Symbols) < 2 {
		return fmt.Errorf("slot needs at least 2 symbols, got %d", len(c.Slot.Symbols))
	}
	jackpotFound := false
	for _, s := range c.Slot.Symbols {
		if s == c.Slot.JackpotSymbol {
			jackpotFound = true
			break
		}
	}
	if !jackpotFound {
		return fmt.Errorf("slot jackpot symbol %q is not in the symbol alphabet", c.Slot.JackpotSymbol)
	}
	if c.Dice.Sides < 2 {
		return fmt.Errorf("dice needs at least 2 sides, got %d", c.Dice.Sides)
	}
	if c.Jackpot.TicketPrice <= 0 {
		return fmt.Errorf("jackpot ticket price must be positive, got %d", c.Jackpot.TicketPrice)
	}
	if c.Jackpot.WinChance <= 0 || c.Jackpot.WinChance >= 1 {
		return fmt.Errorf("jackpot win chance must be in (0, 1), got %v", c.Jackpot.WinChance)
	}
	for _, t := range All {
		if c.MinBet(t) <= 0 {
			return fmt.Errorf("%s minimum bet must be positive", t)
		}
	}
	return nil
}
