//go:build rp2040

package platform

import (
	"io"
	"machine"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/hd44780i2c"

	"moisturemon/logx"
	"moisturemon/services/config"
)

// BootDelay lets USB CDC enumerate before the first console line.
const BootDelay = 2 * time.Second

// New configures the sensor pins, the LCD on I²C and the console.
func New(s config.Settings) *Platform {
	pwr := machine.Pin(s.Pins.SensorPower)
	pwr.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pwr.Low()

	machine.InitADC()
	adc := machine.ADC{Pin: machine.Pin(s.Pins.SensorADC)}
	adc.Configure(machine.ADCConfig{})

	bus := i2cByID(s.Display.Bus)
	panel := hd44780i2c.New(bus, s.Display.Address)
	if err := panel.Configure(hd44780i2c.Config{Width: s.Display.Cols, Height: s.Display.Rows}); err != nil {
		println("Error: lcd configure:", err.Error())
	}

	return &Platform{
		Board:       Board,
		SensorPower: pwr,
		SensorADC:   rp2ADC{a: adc},
		Panel:       &panel,
		Radio:       newRadio(s.WiFi),
		Power:       newPower(),
		Console:     console(s.Console),
	}
}

// rp2ADC narrows TinyGo's left-justified 16-bit samples to the 12-bit
// converter's native range.
type rp2ADC struct{ a machine.ADC }

func (r rp2ADC) Get() uint16 { return r.a.Get() >> 4 }

// i2cByID configures the named controller at 100 kHz on board-default pins;
// PCF8574 backpacks do not run reliably at 400 kHz.
func i2cByID(id string) *machine.I2C {
	if id == "i2c1" {
		b := machine.I2C1
		_ = b.Configure(machine.I2CConfig{
			Frequency: 100 * machine.KHz,
			SDA:       machine.I2C1_SDA_PIN,
			SCL:       machine.I2C1_SCL_PIN,
		})
		return b
	}
	b := machine.I2C0
	_ = b.Configure(machine.I2CConfig{
		Frequency: 100 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})
	return b
}

// console mirrors the USB-CDC log onto a hardware UART when one is configured.
func console(c config.Console) io.Writer {
	if c.Baud == 0 {
		return machine.Serial
	}
	var hw *uartx.UART
	switch c.UART {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return machine.Serial
	}
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: c.Baud,
		TX:       machine.Pin(c.TX),
		RX:       machine.Pin(c.RX),
	})
	return logx.Tee(machine.Serial, hw)
}
