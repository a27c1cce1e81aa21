package game

import "fmt"

// Resolve applies every matching modifier to base.
// Flat additions are summed first, then each percentage multiplies the
// running value, so two +20% upgrades compound to +44%.
func Resolve(mods []Modifier, base float64, scope ModifierScope, key string, stat Stat) float64 {
	val := base
	for _, m := range mods {
		if m.Kind == ModAddFlat && m.matches(scope, key, stat) {
			val += m.Value
		}
	}
	for _, m := range mods {
		if m.Kind == ModMultiplyPercent && m.matches(scope, key, stat) {
			val *= 1 + m.Value
		}
	}
	return val
}

func (m Modifier) matches(scope ModifierScope, key string, stat Stat) bool {
	if m.Stat != stat {
		return false
	}
	if m.Scope == ScopeGlobal {
		return true
	}
	if m.Scope != scope {
		return false
	}
	return m.TargetKey == "" || m.TargetKey == key
}

func (m Modifier) validate() error {
	switch m.Scope {
	case ScopeGlobal, ScopeUnit, ScopeBuilding:
	default:
		return fmt.Errorf("unknown modifier scope %q", m.Scope)
	}
	switch m.Kind {
	case ModAddFlat, ModMultiplyPercent:
	default:
		return fmt.Errorf("unknown modifier kind %q", m.Kind)
	}
	switch m.Stat {
	case StatSpeed, StatCapacity, StatEnergy, StatPower, StatMaxWorkers, StatMaxPopulation:
	default:
		return fmt.Errorf("unknown stat %q", m.Stat)
	}
	return nil
}
