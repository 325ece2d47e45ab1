package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board name (platform.Board for the build)
// Val: YAML document decoded over Default()
//
// Credentials are placeholders; fill them in before flashing.
// -----------------------------------------------------------------------------

const cfgNanoRP2040 = `
board: nano_rp2040
calibration:
  air: 3207
  water: 1475
measurement:
  iterations: 5
  awake_budget: 1m
  settle: 1s
sleep:
  duration: 720m
pins:
  sensor_power: 25
  sensor_adc: 26
display:
  bus: i2c0
  address: 0x27
  cols: 16
  rows: 2
wifi:
  ssid: ""
  passphrase: ""
  poll_interval: 200ms
  associate_timeout: 30s
mail:
  host: smtp.gmail.com
  port: 465
  email: ""
  password: ""
  recipient_name: ""
  recipient_email: ""
console:
  uart: uart0
  baud: 115200
  tx: 0
  rx: 1
`

const cfgPico = `
board: pico
pins:
  sensor_power: 22
  sensor_adc: 26
display:
  bus: i2c0
  address: 0x27
console:
  uart: uart0
  baud: 115200
  tx: 0
  rx: 1
`

const cfgHost = `
board: host
measurement:
  iterations: 5
  awake_budget: 5s
  settle: 100ms
sleep:
  duration: 1m
wifi:
  ssid: bench
  associate_timeout: 5s
mail:
  host: localhost
  port: 2525
  email: monitor@localhost
  recipient_name: Bench
  recipient_email: bench@localhost
  timeout: 5s
`

var embeddedConfigs = map[string][]byte{
	"nano_rp2040": []byte(cfgNanoRP2040),
	"pico":        []byte(cfgPico),
	"host":        []byte(cfgHost),
}
