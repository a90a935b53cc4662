package softtoken

// Transport metadata reported by the virtual device.
const (
	protocolVersion = 2
	deviceMajor     = 1
	deviceMinor     = 1
	deviceBuild     = 0

	capWink = 0x01
	capCBOR = 0x04
	capNMSG = 0x08
)

type deviceHandle struct {
	eng    *Engine
	closed bool
	freed  bool
}

func (d *deviceHandle) IsFIDO2() bool { return true }
func (d *deviceHandle) Protocol() uint8 { return protocolVersion }
func (d *deviceHandle) Major() uint8 { return deviceMajor }
func (d *deviceHandle) Minor() uint8 { return deviceMinor }
func (d *deviceHandle) Build() uint8 { return deviceBuild }
func (d *deviceHandle) Flags() byte { return capWink | capCBOR | capNMSG }

func (d *deviceHandle) Close() error {
	d.closed = true
	return nil
}

func (d *deviceHandle) Free() {
	d.freed = true
}
