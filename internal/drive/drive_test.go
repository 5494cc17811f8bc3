package drive

import (
	"testing"

	"github.com/bindiesel/bindiesel_client/internal/command"
	"github.com/bindiesel/bindiesel_client/internal/config"
	"github.com/bindiesel/bindiesel_client/internal/models"
)

var testDriveCfg = config.DriveConfig{
	MaxSteer:    45.0,
	SpeedStop:   0.0,
	SpeedSlow:   0.25,
	SpeedMedium: 0.45,
	SpeedFast:   0.65,
	SpeedTurn:   0.55,
}

type mockDriver struct {
	initCalls int
	stopCalls int
	batches   [][]command.DriverCommand
}

func (m *mockDriver) Init() error {
	m.initCalls++
	return nil
}

func (m *mockDriver) Set(cmd command.DriverCommand) error {
	m.batches = append(m.batches, []command.DriverCommand{cmd})
	return nil
}

func (m *mockDriver) SetMany(cmds []command.DriverCommand) error {
	m.batches = append(m.batches, cmds)
	return nil
}

func (m *mockDriver) Stop() error {
	m.stopCalls++
	return nil
}

func (m *mockDriver) last(t *testing.T) map[string]command.DriverCommand {
	t.Helper()
	if len(m.batches) == 0 {
		t.Fatal("no commands were applied")
	}
	byName := make(map[string]command.DriverCommand)
	for _, cmd := range m.batches[len(m.batches)-1] {
		byName[cmd.Name] = cmd
	}
	return byName
}

func TestInitCentersBeforeFirstTick(t *testing.T) {
	driver := &mockDriver{}
	d := New(testDriveCfg, driver)

	err := d.Init()
	if err != nil {
		t.Fatalf("unexpected init error: %s", err.Error())
	}

	if driver.initCalls != 1 {
		t.Fatalf("expected 1 driver init, got %d", driver.initCalls)
	}
	last := driver.last(t)
	if last["esc"].Value != 0 {
		t.Fatalf("expected esc at 0 after init, got %.2f", last["esc"].Value)
	}
	if last["steer"].Value != 0 {
		t.Fatalf("expected steer centered after init, got %.2f", last["steer"].Value)
	}
}

func TestApplyMapsSpeedTable(t *testing.T) {
	speeds := map[models.SpeedFactor]float64{
		models.SpeedStop:   testDriveCfg.SpeedStop,
		models.SpeedSlow:   testDriveCfg.SpeedSlow,
		models.SpeedMedium: testDriveCfg.SpeedMedium,
		models.SpeedFast:   testDriveCfg.SpeedFast,
		models.SpeedTurn:   testDriveCfg.SpeedTurn,
	}

	for speed, want := range speeds {
		driver := &mockDriver{}
		d := New(testDriveCfg, driver)

		err := d.Apply(models.Command{Speed: speed, SteerDeg: 0})
		if err != nil {
			t.Fatalf("unexpected apply error: %s", err.Error())
		}

		last := driver.last(t)
		if got := last["esc"].Value; got != want {
			t.Fatalf("speed %s: expected esc %.2f, got %.2f", speed, want, got)
		}
		if last["esc"].Min != MinEsc || last["esc"].Max != MaxEsc {
			t.Fatalf("speed %s: esc range was [%.1f, %.1f]", speed, last["esc"].Min, last["esc"].Max)
		}
	}
}

func TestApplyNormalizesSteering(t *testing.T) {
	cases := []struct {
		steerDeg float64
		want     float64
	}{
		{0, 0},
		{45, 1},
		{-45, -1},
		{22.5, 0.5},
		{90, 1},   //clamped to max
		{-90, -1}, //clamped to max
	}

	for _, tc := range cases {
		driver := &mockDriver{}
		d := New(testDriveCfg, driver)

		err := d.Apply(models.Command{Speed: models.SpeedMedium, SteerDeg: tc.steerDeg})
		if err != nil {
			t.Fatalf("unexpected apply error: %s", err.Error())
		}

		last := driver.last(t)
		if got := last["steer"].Value; got != tc.want {
			t.Fatalf("steer %.1f: expected normalized %.2f, got %.2f", tc.steerDeg, tc.want, got)
		}
	}
}

func TestSafeStopsAndCenters(t *testing.T) {
	driver := &mockDriver{}
	d := New(testDriveCfg, driver)

	err := d.Safe()
	if err != nil {
		t.Fatalf("unexpected safe error: %s", err.Error())
	}

	last := driver.last(t)
	if last["esc"].Value != 0 || last["steer"].Value != 0 {
		t.Fatalf("expected stopped and centered, got esc %.2f steer %.2f", last["esc"].Value, last["steer"].Value)
	}
}

func TestCloseStopsDriver(t *testing.T) {
	driver := &mockDriver{}
	d := New(testDriveCfg, driver)

	err := d.Close()
	if err != nil {
		t.Fatalf("unexpected close error: %s", err.Error())
	}
	if driver.stopCalls != 1 {
		t.Fatalf("expected 1 driver stop, got %d", driver.stopCalls)
	}
}
