package robot

import "fmt"

// ManageCleaningSystem switches the cleaning system and recharge LED from a
// fresh charge reading. At or below LowBatteryThreshold the cleaning system
// goes off and the LED on; otherwise the reverse. The cleaning system is
// always switched before the LED.
func (r *CleaningRobot) ManageCleaningSystem() error {
	charge, err := r.battery.ChargeLeft()
	if err != nil {
		return fmt.Errorf("read charge: %w", err)
	}

	low := charge <= LowBatteryThreshold

	if err := r.act.SetCleaningSystem(!low); err != nil {
		return fmt.Errorf("switch cleaning system: %w", err)
	}
	r.cleaningSystemOn = !low

	if err := r.act.SetRechargeLED(low); err != nil {
		return fmt.Errorf("switch recharge led: %w", err)
	}
	r.rechargeLEDOn = low

	return nil
}
