package csi2rx

import "fmt"

// mbpsReg maps a link speed threshold in Mbps to an opaque calibration
// register value. Tables are sorted ascending by speed; the values come
// from the hardware manual and lack further documentation.
type mbpsReg struct {
	mbps int
	reg  uint16
}

// lookupMbpsReg picks the table entry nearest to the requested speed.
// A speed below the first entry selects the first entry with a logged
// warning; a tie in distance favours the lower entry; a speed above the
// last entry is unsupported.
func (v *CSI2RX) lookupMbpsReg(table []mbpsReg, mbps int) (uint16, error) {

	if len(table) == 0 {
		return 0, fmt.Errorf("%w: no calibration table for this variant", ErrUnsupportedSpeed)
	}

	if mbps < table[0].mbps {
		v.log.Printf("%d Mbps less than min PHY speed %d Mbps", mbps, table[0].mbps)
	}

	var prev *mbpsReg

	for i := range table {
		cur := &table[i]

		if cur.mbps >= mbps {
			if prev != nil && (mbps-prev.mbps) <= (cur.mbps-mbps) {
				return prev.reg, nil
			}
			return cur.reg, nil
		}

		prev = cur
	}

	return 0, fmt.Errorf("%w (%d Mbps)", ErrUnsupportedSpeed, mbps)
}

var phtwMbpsV3U = []mbpsReg{
	{1500, 0xcc}, {1550, 0x1d}, {1600, 0x27}, {1650, 0x30},
	{1700, 0x39}, {1750, 0x42}, {1800, 0x4b}, {1850, 0x55},
	{1900, 0x5e}, {1950, 0x67}, {2000, 0x71}, {2050, 0x79},
	{2100, 0x83}, {2150, 0x8c}, {2200, 0x95}, {2250, 0x9e},
	{2300, 0xa7}, {2350, 0xb0}, {2400, 0xba}, {2450, 0xc3},
	{2500, 0xcc},
}

var phtwMbpsH3V3HM3N = []mbpsReg{
	{80, 0x86}, {90, 0x86}, {100, 0x87}, {110, 0x87},
	{120, 0x88}, {130, 0x88}, {140, 0x89}, {150, 0x89},
	{160, 0x8a}, {170, 0x8a}, {180, 0x8b}, {190, 0x8b},
	{205, 0x8c}, {220, 0x8d}, {235, 0x8e}, {250, 0x8e},
}

var phtwMbpsV3ME3 = []mbpsReg{
	{80, 0x00}, {90, 0x20}, {100, 0x40}, {110, 0x02},
	{130, 0x22}, {140, 0x42}, {150, 0x04}, {170, 0x24},
	{180, 0x44}, {200, 0x06}, {220, 0x26}, {240, 0x46},
	{250, 0x08}, {270, 0x28}, {300, 0x0a}, {330, 0x2a},
	{360, 0x4a}, {400, 0x0c}, {450, 0x2c}, {500, 0x0e},
	{550, 0x2e}, {600, 0x10}, {650, 0x30}, {700, 0x12},
	{750, 0x32}, {800, 0x52}, {850, 0x72}, {900, 0x14},
	{950, 0x34}, {1000, 0x54}, {1050, 0x74}, {1125, 0x16},
}

var hsFreqRangeV3U = []mbpsReg{
	{80, 0x00}, {90, 0x10}, {100, 0x20}, {110, 0x30},
	{120, 0x01}, {130, 0x11}, {140, 0x21}, {150, 0x31},
	{160, 0x02}, {170, 0x12}, {180, 0x22}, {190, 0x32},
	{205, 0x03}, {220, 0x13}, {235, 0x23}, {250, 0x33},
	{275, 0x04}, {300, 0x14}, {325, 0x25}, {350, 0x35},
	{400, 0x05}, {450, 0x16}, {500, 0x26}, {550, 0x37},
	{600, 0x07}, {650, 0x18}, {700, 0x28}, {750, 0x39},
	{800, 0x09}, {850, 0x19}, {900, 0x29}, {950, 0x3a},
	{1000, 0x0a}, {1050, 0x1a}, {1100, 0x2a}, {1150, 0x3b},
	{1200, 0x0b}, {1250, 0x1b}, {1300, 0x2b}, {1350, 0x3c},
	{1400, 0x0c}, {1450, 0x1c}, {1500, 0x2c}, {1550, 0x3d},
	{1600, 0x0d}, {1650, 0x1d}, {1700, 0x2e}, {1750, 0x3e},
	{1800, 0x0e}, {1850, 0x1e}, {1900, 0x2f}, {1950, 0x3f},
	{2000, 0x0f}, {2050, 0x40}, {2100, 0x41}, {2150, 0x42},
	{2200, 0x43}, {2300, 0x45}, {2350, 0x46}, {2400, 0x47},
	{2450, 0x48}, {2500, 0x49},
}

var hsFreqRangeH3V3HM3N = []mbpsReg{
	{80, 0x00}, {90, 0x10}, {100, 0x20}, {110, 0x30},
	{120, 0x01}, {130, 0x11}, {140, 0x21}, {150, 0x31},
	{160, 0x02}, {170, 0x12}, {180, 0x22}, {190, 0x32},
	{205, 0x03}, {220, 0x13}, {235, 0x23}, {250, 0x33},
	{275, 0x04}, {300, 0x14}, {325, 0x25}, {350, 0x35},
	{400, 0x05}, {450, 0x16}, {500, 0x26}, {550, 0x37},
	{600, 0x07}, {650, 0x18}, {700, 0x28}, {750, 0x39},
	{800, 0x09}, {850, 0x19}, {900, 0x29}, {950, 0x3a},
	{1000, 0x0a}, {1050, 0x1a}, {1100, 0x2a}, {1150, 0x3b},
	{1200, 0x0b}, {1250, 0x1b}, {1300, 0x2b}, {1350, 0x3c},
	{1400, 0x0c}, {1450, 0x1c}, {1500, 0x2c},
}

var hsFreqRangeM3WH3ES1 = []mbpsReg{
	{80, 0x00}, {90, 0x10}, {100, 0x20}, {110, 0x30},
	{120, 0x01}, {130, 0x11}, {140, 0x21}, {150, 0x31},
	{160, 0x02}, {170, 0x12}, {180, 0x22}, {190, 0x32},
	{205, 0x03}, {220, 0x13}, {235, 0x23}, {250, 0x33},
	{275, 0x04}, {300, 0x14}, {325, 0x05}, {350, 0x15},
	{400, 0x25}, {450, 0x06}, {500, 0x16}, {550, 0x07},
	{600, 0x17}, {650, 0x08}, {700, 0x18}, {750, 0x09},
	{800, 0x19}, {850, 0x29}, {900, 0x39}, {950, 0x0a},
	{1000, 0x1a}, {1050, 0x2a}, {1100, 0x3a}, {1150, 0x0b},
	{1200, 0x1b}, {1250, 0x2b}, {1300, 0x3b}, {1350, 0x0c},
	{1400, 0x1c}, {1450, 0x2c}, {1500, 0x3c},
}

var hsFreqRangeV4M = []mbpsReg{
	{80, 0x00}, {90, 0x10}, {100, 0x20}, {110, 0x30},
	{120, 0x01}, {130, 0x11}, {140, 0x21}, {150, 0x31},
	{160, 0x02}, {170, 0x12}, {180, 0x22}, {190, 0x32},
	{205, 0x03}, {220, 0x13}, {235, 0x23}, {250, 0x33},
	{275, 0x04}, {300, 0x14}, {325, 0x25}, {350, 0x35},
	{400, 0x05}, {450, 0x16}, {500, 0x26}, {550, 0x37},
	{600, 0x07}, {650, 0x18}, {700, 0x28}, {750, 0x39},
	{800, 0x09}, {850, 0x19}, {900, 0x29}, {950, 0x3A},
	{1000, 0x0A}, {1050, 0x1A}, {1100, 0x2A}, {1150, 0x3B},
	{1200, 0x0B}, {1250, 0x1B}, {1300, 0x2B}, {1350, 0x3C},
	{1400, 0x0C}, {1450, 0x1C}, {1500, 0x2C}, {1550, 0x3D},
	{1600, 0x0D}, {1650, 0x1D}, {1700, 0x2E}, {1750, 0x3E},
	{1800, 0x0E}, {1850, 0x1E}, {1900, 0x2F}, {1950, 0x3F},
	{2000, 0x0F}, {2050, 0x40}, {2100, 0x41}, {2150, 0x42},
	{2200, 0x43}, {2250, 0x44}, {2300, 0x45}, {2350, 0x46},
	{2400, 0x47}, {2450, 0x48}, {2500, 0x49},
}

var oscFreqTargetV4M = []mbpsReg{
	{80, 0x1A9}, {90, 0x1A9}, {100, 0x1A9}, {110, 0x1A9},
	{120, 0x1A9}, {130, 0x1A9}, {140, 0x1A9}, {150, 0x1A9},
	{160, 0x1A9}, {170, 0x1A9}, {180, 0x1A9}, {190, 0x1A9},
	{205, 0x1A9}, {220, 0x1A9}, {235, 0x1A9}, {250, 0x1A9},
	{275, 0x1A9}, {300, 0x1A9}, {325, 0x1A9}, {350, 0x1A9},
	{400, 0x1A9}, {450, 0x1A9}, {500, 0x1A9}, {550, 0x1A9},
	{600, 0x1A9}, {650, 0x1A9}, {700, 0x1A9}, {750, 0x1A9},
	{800, 0x1A9}, {850, 0x1A9}, {900, 0x1A9}, {950, 0x1A9},
	{1000, 0x1A9}, {1050, 0x1A9}, {1100, 0x1A9}, {1150, 0x1A9},
	{1200, 0x1A9}, {1250, 0x1A9}, {1300, 0x1A9}, {1350, 0x1A9},
	{1400, 0x1A9}, {1450, 0x1A9}, {1500, 0x1A9}, {1550, 0x108},
	{1600, 0x110}, {1650, 0x119}, {1700, 0x121}, {1750, 0x12A},
	{1800, 0x132}, {1850, 0x13B}, {1900, 0x143}, {1950, 0x14C},
	{2000, 0x154}, {2050, 0x15D}, {2100, 0x165}, {2150, 0x16E},
	{2200, 0x176}, {2250, 0x17F}, {2300, 0x187}, {2350, 0x190},
	{2400, 0x198}, {2450, 0x1A1}, {2500, 0x1A9},
}

// cphySetting carries the C-PHY timing and bandwidth constants for one
// symbol rate step. Unlike the bit-rate tables above this one is keyed
// in Msps.
type cphySetting struct {
	msps       int
	rwHSRX2    uint16
	rwTrio0    uint16
	rwTrio1    uint16
	rwTrio2    uint16
	afeLane029 uint16
	afeLane027 uint16
}

var cphySettingsV4H = []cphySetting{
	{80, 0x0038, 0x0200, 0x0134, 0x006a, 0x0000, 0x0000},
	{100, 0x0038, 0x0200, 0x00f5, 0x0055, 0x0000, 0x0000},
	{200, 0x0038, 0x0200, 0x0077, 0x002b, 0x0000, 0x0000},
	{300, 0x0038, 0x0200, 0x004d, 0x001d, 0x0000, 0x0000},
	{400, 0x0038, 0x0200, 0x0038, 0x0016, 0x0000, 0x0000},
	{500, 0x0038, 0x0200, 0x002c, 0x0012, 0x0000, 0x0000},
	{600, 0x0038, 0x0200, 0x0023, 0x000f, 0x0000, 0x0000},
	{700, 0x0038, 0x0200, 0x001d, 0x000d, 0x0000, 0x0000},
	{800, 0x0038, 0x0200, 0x0019, 0x000c, 0x0000, 0x0000},
	{900, 0x0038, 0x0200, 0x0015, 0x000b, 0x0000, 0x0000},
	{1000, 0x003e, 0x0200, 0x0013, 0x000a, 0x0000, 0x0400},
	{1100, 0x0044, 0x0200, 0x0010, 0x0009, 0x0000, 0x0800},
	{1200, 0x004a, 0x0200, 0x000e, 0x0008, 0x0000, 0x0c00},
	{1300, 0x0051, 0x0200, 0x000d, 0x0008, 0x0000, 0x0c00},
	{1400, 0x0057, 0x0200, 0x000b, 0x0007, 0x0000, 0x1000},
	{1500, 0x005d, 0x0400, 0x000a, 0x0007, 0x0000, 0x1000},
	{1600, 0x0063, 0x0400, 0x0009, 0x0007, 0x0000, 0x1400},
	{1700, 0x006a, 0x0400, 0x0008, 0x0006, 0x0000, 0x1400},
	{1800, 0x0070, 0x0400, 0x0007, 0x0006, 0x0000, 0x1400},
	{1900, 0x0076, 0x0400, 0x0007, 0x0006, 0x0000, 0x1400},
	{2000, 0x007c, 0x0400, 0x0006, 0x0006, 0x0000, 0x1800},
	{2100, 0x0083, 0x0400, 0x0005, 0x0005, 0x0000, 0x1800},
	{2200, 0x0089, 0x0600, 0x0005, 0x0005, 0x0000, 0x1800},
	{2300, 0x008f, 0x0600, 0x0004, 0x0005, 0x0000, 0x1800},
	{2400, 0x0095, 0x0600, 0x0004, 0x0005, 0x0000, 0x1800},
	{2500, 0x009c, 0x0600, 0x0004, 0x0005, 0x0000, 0x1c00},
	{2600, 0x00a2, 0x0600, 0x0003, 0x0005, 0x0010, 0x1c00},
	{2700, 0x00a8, 0x0600, 0x0003, 0x0005, 0x0010, 0x1c00},
	{2800, 0x00ae, 0x0600, 0x0002, 0x0004, 0x0010, 0x1c00},
	{2900, 0x00b5, 0x0800, 0x0002, 0x0004, 0x0010, 0x1c00},
	{3000, 0x00bb, 0x0800, 0x0002, 0x0004, 0x0010, 0x1c00},
	{3100, 0x00c1, 0x0800, 0x0002, 0x0004, 0x0010, 0x1c00},
	{3200, 0x00c7, 0x0800, 0x0001, 0x0004, 0x0010, 0x1c00},
	{3300, 0x00ce, 0x0800, 0x0001, 0x0004, 0x0010, 0x1c00},
	{3400, 0x00d4, 0x0800, 0x0001, 0x0004, 0x0010, 0x1c00},
	{3500, 0x00da, 0x0800, 0x0001, 0x0004, 0x0010, 0x1c00},
}

// lookupCPHYSetting selects the first settings row whose rate step lies
// above the requested symbol rate, matching the hardware manual's step
// selection rule for this table.
func (v *CSI2RX) lookupCPHYSetting(msps int) (*cphySetting, error) {

	for i := range cphySettingsV4H {
		if cphySettingsV4H[i].msps > msps {
			return &cphySettingsV4H[i], nil
		}
	}

	return nil, fmt.Errorf("%w (%d Msps)", ErrUnsupportedSpeed, msps)
}

// Trio wire order codes for C-PHY pin swap.
const (
	OrderABC uint8 = 0x0
	OrderCBA uint8 = 0x1
	OrderACB uint8 = 0x2
	OrderCAB uint8 = 0x3
	OrderBAC uint8 = 0x4
	OrderBCA uint8 = 0x5
)

// pinSwap maps a trio wire order code to the register bit patterns
// selecting that order.
type pinSwap struct {
	code       uint8
	rwCfg0B20  uint16
	rwCfg0B3   uint16
	afeClane29 uint16
}

var pinSwaps = []pinSwap{
	{OrderABC, 0x0, 0x0, 0x0},
	{OrderCBA, 0x1, 0x1, 0x1},
	{OrderACB, 0x2, 0x1, 0x1},
	{OrderCAB, 0x3, 0x0, 0x0},
	{OrderBAC, 0x4, 0x1, 0x1},
	{OrderBCA, 0x5, 0x0, 0x0},
}

// cphyTrioRegs holds the per-trio register addresses touched by the
// C-PHY equalization and pin-swap steps.
type cphyTrioRegs struct {
	hsReceive uint32
	pinSwap   uint32
	ctrl27    uint32
	rwConf    uint32
}

var cphyTrioRegTable = [3]cphyTrioRegs{
	{
		hsReceive: coreDigIOCtrlRWAFELane0Ctrl2(9),
		pinSwap:   coreDigIOCtrlRWAFELane0Ctrl2(9),
		ctrl27:    coreDigIOCtrlRWAFELane0Ctrl2(7),
		rwConf:    CORE_DIG_CLANE_0_RW_CFG_0,
	},
	{
		hsReceive: coreDigIOCtrlRWAFELane1Ctrl2(9),
		pinSwap:   coreDigIOCtrlRWAFELane2Ctrl2(9),
		ctrl27:    coreDigIOCtrlRWAFELane1Ctrl2(7),
		rwConf:    CORE_DIG_CLANE_1_RW_CFG_0,
	},
	{
		hsReceive: coreDigIOCtrlRWAFELane2Ctrl2(9),
		pinSwap:   coreDigIOCtrlRWAFELane3Ctrl2(9),
		ctrl27:    coreDigIOCtrlRWAFELane2Ctrl2(7),
		rwConf:    CORE_DIG_CLANE_2_RW_CFG_0,
	},
}
