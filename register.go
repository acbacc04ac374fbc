package csi2rx

const (
	// Control timing select
	TREF_REG  uint32 = 0x00
	TREF_TREF uint32 = 1 << 0

	// Software reset
	SRST_REG  uint32 = 0x04
	SRST_SRST uint32 = 1 << 0

	// PHY operation control
	PHYCNT_REG       uint32 = 0x08
	PHYCNT_SHUTDOWNZ uint32 = 1 << 17
	PHYCNT_RSTZ      uint32 = 1 << 16
	PHYCNT_ENABLECLK uint32 = 1 << 4

	// Checksum control
	CHKSUM_REG    uint32 = 0x0c
	CHKSUM_ECC_EN uint32 = 1 << 1
	CHKSUM_CRC_EN uint32 = 1 << 0

	// Channel data type select. VCDT holds channels 0 (bits [15:0]) and
	// 1 (bits [31:16]), VCDT2 holds channels 2 and 3 the same way.
	VCDT_REG        uint32 = 0x10
	VCDT2_REG       uint32 = 0x14
	VCDT_VCDTN_EN   uint32 = 1 << 15
	VCDT_SEL_DTN_ON uint32 = 1 << 6

	// Frame data type select
	FRDT_REG uint32 = 0x18

	// Field detection control
	FLD_REG     uint32 = 0x1c
	FLD_FLD_EN4 uint32 = 1 << 3
	FLD_FLD_EN3 uint32 = 1 << 2
	FLD_FLD_EN2 uint32 = 1 << 1
	FLD_FLD_EN  uint32 = 1 << 0

	// Automatic standby control
	ASTBY_REG uint32 = 0x20

	// Long data type settings
	LNGDT0_REG uint32 = 0x28
	LNGDT1_REG uint32 = 0x2c

	// Interrupt enable
	INTEN_REG              uint32 = 0x30
	INTEN_INT_AFIFO_OF     uint32 = 1 << 27
	INTEN_INT_ERRSOTHS     uint32 = 1 << 4
	INTEN_INT_ERRSOTSYNCHS uint32 = 1 << 3

	// Interrupt source mask
	INTCLOSE_REG uint32 = 0x34

	// Interrupt status monitor
	INTSTATE_REG            uint32 = 0x38
	INTSTATE_INT_ULPS_START uint32 = 1 << 7
	INTSTATE_INT_ULPS_END   uint32 = 1 << 6

	// Interrupt error status monitor
	INTERRSTATE_REG uint32 = 0x3c

	// Short packet data and count
	SHPDAT_REG uint32 = 0x40
	SHPCNT_REG uint32 = 0x44

	// Link operation control
	LINKCNT_REG              uint32 = 0x48
	LINKCNT_MONITOR_EN       uint32 = 1 << 31
	LINKCNT_REG_MONI_PACT_EN uint32 = 1 << 25
	LINKCNT_ICLK_NONSTOP     uint32 = 1 << 24

	// Lane swap
	LSWAP_REG uint32 = 0x4c

	// PHY test interface write
	PHTW_REG  uint32 = 0x50
	PHTW_DWEN uint32 = 1 << 24
	PHTW_CWEN uint32 = 1 << 8

	// PHY test interface clear
	PHTC_REG     uint32 = 0x58
	PHTC_TESTCLR uint32 = 1 << 0

	// PHY force RX mode (V3U)
	PHYFRX_REG            uint32 = 0x64
	PHYFRX_FORCERX_MODE_3 uint32 = 1 << 3
	PHYFRX_FORCERX_MODE_2 uint32 = 1 << 2
	PHYFRX_FORCERX_MODE_1 uint32 = 1 << 1
	PHYFRX_FORCERX_MODE_0 uint32 = 1 << 0

	// PHY frequency control
	PHYPLL_REG uint32 = 0x68

	// PHY ESC error monitor
	PHEERM_REG uint32 = 0x74

	// PHY clock lane monitor
	PHCLM_REG          uint32 = 0x78
	PHCLM_STOPSTATECKL uint32 = 1 << 0

	// PHY data lane monitor
	PHDLM_REG uint32 = 0x7c

	// CSI0CLK frequency configuration preset
	CSI0CLKFCPR_REG uint32 = 0x260
)

// Bit field packing helpers for the multi-channel and lane registers.

func vcdtSelVC(n uint32) uint32 { return (n & 0x3) << 8 }
func vcdtSelDT(n uint32) uint32 { return n & 0x3f }
func fldNum(n uint32) uint32    { return (n & 0xff) << 16 }
func fldDetSel(n uint32) uint32 { return (n & 0x3) << 4 }
func lswapLSel(lane, n uint32) uint32 {
	return (n & 0x3) << (lane * 2)
}
func phtwDinData(n uint32) uint32       { return (n & 0xff) << 16 }
func phtwDinCode(n uint32) uint32       { return n & 0xff }
func phyPLLHSFreqRange(n uint32) uint32 { return n << 16 }
func csi0ClkFreqRange(n uint32) uint32  { return (n & 0x3f) << 16 }

// V4H registers
const (
	N_LANES       uint32 = 0x0004
	CSI2_RESETN   uint32 = 0x0008
	PHY_MODE      uint32 = 0x001c
	PHY_SHUTDOWNZ uint32 = 0x0040
	DPHY_RSTZ     uint32 = 0x0044

	FLDC uint32 = 0x0804
	FLDD uint32 = 0x0808
	IDIC uint32 = 0x0810

	OVR1                 uint32 = 0x0848
	OVR1_FORCERXMODE_3   uint32 = 1 << 12
	OVR1_FORCERXMODE_2   uint32 = 1 << 11
	OVR1_FORCERXMODE_1   uint32 = 1 << 10
	OVR1_FORCERXMODE_0   uint32 = 1 << 9
	OVR1_FORCERXMODE_DCK uint32 = 1 << 8

	PHY_EN         uint32 = 0x2000
	PHY_ENABLE_3   uint32 = 1 << 7
	PHY_ENABLE_2   uint32 = 1 << 6
	PHY_ENABLE_1   uint32 = 1 << 5
	PHY_ENABLE_0   uint32 = 1 << 4
	PHY_ENABLE_DCK uint32 = 1 << 0

	FRXM                 uint32 = 0x2004
	FRXM_FORCERXMODE_DCK uint32 = 1 << 4
	FRXM_FORCERXMODE_3   uint32 = 1 << 3
	FRXM_FORCERXMODE_2   uint32 = 1 << 2
	FRXM_FORCERXMODE_1   uint32 = 1 << 1
	FRXM_FORCERXMODE_0   uint32 = 1 << 0

	ST_PHYST         uint32 = 0x2814
	ST_PHY_READY     uint32 = 1 << 31
	ST_STOPSTATE_DCK uint32 = 1 << 7
	ST_STOPSTATE_3   uint32 = 1 << 3
	ST_STOPSTATE_2   uint32 = 1 << 2
	ST_STOPSTATE_1   uint32 = 1 << 1
	ST_STOPSTATE_0   uint32 = 1 << 0
)

// V4M registers
const (
	V4M_PHYPLL      uint32 = 0x02050
	V4M_CSI0CLKFCPR uint32 = 0x02054
	V4M_PHTW        uint32 = 0x02060
	V4M_PHTR        uint32 = 0x02064
	V4M_PHTC        uint32 = 0x02068
)

func v4mCSI0ClkFreqRange(n uint32) uint32 { return (n & 0xff) << 16 }
func v4mPHTWDinDataPP(n uint32) uint32    { return n & 0xff }
func v4mPHTWDinDataD(n uint32) uint32     { return (n & 0xf00) >> 16 }

// V4H PPI registers (16-bit APB space)
const (
	PPI_STARTUP_RW_COMMON_STARTUP_1_1 uint32 = 0x21822
	PPI_CALIBCTRL_RW_COMMON_BG_0      uint32 = 0x2184C
	PPI_RW_LPDCOCAL_TIMEBASE          uint32 = 0x21C02
	PPI_RW_LPDCOCAL_NREF              uint32 = 0x21C04
	PPI_RW_LPDCOCAL_NREF_RANGE        uint32 = 0x21C06
	PPI_RW_LPDCOCAL_TWAIT_CONFIG      uint32 = 0x21C0A
	PPI_RW_LPDCOCAL_VT_CONFIG         uint32 = 0x21C0C
	PPI_RW_LPDCOCAL_COARSE_CFG        uint32 = 0x21C10
	PPI_RW_COMMON_CFG                 uint32 = 0x21C6C
	PPI_RW_TERMCAL_CFG_0              uint32 = 0x21C80
	PPI_RW_OFFSETCAL_CFG_0            uint32 = 0x21CA0
)

func ppiStartupRWCommonDPHY(n uint32) uint32 { return 0x21800 + n*2 } // n = 0 - 9
func ppiRWDDLCalCfg(n uint32) uint32         { return 0x21C40 + n*2 } // n = 0 - 7

// V4H CORE registers
const (
	CORE_DIG_COMMON_RW_DESKEW_FINE_MEM uint32 = 0x23FE0

	CORE_DIG_CLANE_0_RW_CFG_0 uint32 = 0x2A000
	CORE_DIG_CLANE_1_RW_CFG_0 uint32 = 0x2A400
	CORE_DIG_CLANE_2_RW_CFG_0 uint32 = 0x2A800

	CORE_DIG_CLANE_0_RW_HS_TX_6 uint32 = 0x2A20C
	CORE_DIG_CLANE_1_RW_HS_TX_6 uint32 = 0x2A60C
	CORE_DIG_CLANE_2_RW_HS_TX_6 uint32 = 0x2AA0C

	CORE_DIG_CLANE_0_RW_LP_0 uint32 = 0x2A080
	CORE_DIG_CLANE_1_RW_LP_0 uint32 = 0x2A480
	CORE_DIG_CLANE_2_RW_LP_0 uint32 = 0x2A880
)

func coreDigIOCtrlRWAFELane0Ctrl2(n uint32) uint32 { return 0x22040 + n*2 } // n = 0 - 15
func coreDigIOCtrlRWAFELane1Ctrl2(n uint32) uint32 { return 0x22440 + n*2 }
func coreDigIOCtrlRWAFELane2Ctrl2(n uint32) uint32 { return 0x22840 + n*2 }
func coreDigIOCtrlRWAFELane3Ctrl2(n uint32) uint32 { return 0x22C40 + n*2 }
func coreDigIOCtrlRWAFELane4Ctrl2(n uint32) uint32 { return 0x23040 + n*2 }

func coreDigIOCtrlRWAFECBCtrl2(n uint32) uint32 { return 0x23840 + n*2 } // n = 0 - 11

func coreDigRWCommon(n uint32) uint32 { return 0x23880 + n*2 } // n = 0 - 15

func coreDigAnaCtrlRWCommonAnaCtrl(n uint32) uint32 { return 0x239E0 + n*2 } // n = 0 - 3

func coreDigRWTrio0(n uint32) uint32 { return 0x22100 + n*2 }
func coreDigRWTrio1(n uint32) uint32 { return 0x22500 + n*2 }
func coreDigRWTrio2(n uint32) uint32 { return 0x22900 + n*2 }

func coreDigCLane0RWHSRX(n uint32) uint32 { return 0x2A100 + n*2 } // n = 0 - 6
func coreDigCLane1RWHSRX(n uint32) uint32 { return 0x2A500 + n*2 }
func coreDigCLane2RWHSRX(n uint32) uint32 { return 0x2A900 + n*2 }

// X5H (SNPS CSI-2 v4.0) registers
const (
	TO_HSRX_CFG uint32 = 0x24

	PWR_UP     uint32 = 0xc
	PWR_UP_BIT uint32 = 1 << 0

	PHY_MODE_CFG   uint32 = 0x100
	PPI_WIDTH      uint32 = 0x3 << 16
	PHY_L3_DISABLE uint32 = 1 << 11
	PHY_L2_DISABLE uint32 = 1 << 10
	PHY_L1_DISABLE uint32 = 1 << 9
	PHY_L0_DISABLE uint32 = 1 << 8
	PHY_MODE_BIT   uint32 = 1 << 0

	PHY_DESKEW_CFG    uint32 = 0x104
	DESKEW_SYS_CYCLES uint32 = 0xff

	CSI2_GENERAL_CFG        uint32 = 0x200
	ECC_VCX_OVERRIDE        uint32 = 1 << 1
	CSI2_RXSYNCHS_FILTER_EN uint32 = 1 << 0

	SDI_CFG         uint32 = 0x400
	SDI_ENCODE_MODE uint32 = 1 << 1
	SDI_ENABLE      uint32 = 1 << 0

	SDI_FILTER_CFG     uint32 = 0x404
	SDI_HDR_FE_SP      uint32 = 1 << 20
	SDI_EXCLUDE_HDR_FE uint32 = 1 << 19
	SDI_EXCLUDE_SP     uint32 = 1 << 18
	SDI_SELECT_DT_EN   uint32 = 1 << 17
	SDI_SELECT_VC_EN   uint32 = 1 << 16
	SDI_SELECT_DT      uint32 = 0x3f << 8
	SDI_SELECT_VC      uint32 = 0x1f << 0

	SDI_CTRL uint32 = 0x408

	INT_ST_TO       uint32 = 0x528
	HSRX_TO_ERR_IRQ uint32 = 1 << 0

	INT_UNMASK_CSI2                  uint32 = 0x59c
	UNMASK_MAX_N_DATA_IDS_ERR_IRQ    uint32 = 1 << 5
	UNMASK_INVALID_DT_ERR_IRQ        uint32 = 1 << 4
	UNMASK_CRC_ERR_IRQ               uint32 = 1 << 3
	UNMASK_INVALID_RX_LENGTH_ERR_IRQ uint32 = 1 << 2
	UNMASK_HDR_NON_FATAL_ERR_IRQ     uint32 = 1 << 1
	UNMASK_HDR_FATAL_ERR_IRQ         uint32 = 1 << 0

	INT_UNMASK_FRAME              uint32 = 0x5a0
	UNMASK_FRAME_SEQUENCE_ERR_IRQ uint32 = 1 << 1
	UNMASK_FRAME_BOUNDARY_ERR_IRQ uint32 = 1 << 0

	INT_UNMASK_LINE              uint32 = 0x5a4
	UNMASK_LINE_SEQUENCE_ERR_IRQ uint32 = 1 << 1
	UNMASK_LINE_BOUNDARY_ERR_IRQ uint32 = 1 << 0
)

// mask16 builds a contiguous 16-bit mask covering bits hi down to lo.
func mask16(hi, lo uint) uint16 {
	return uint16((uint32(1)<<(hi+1) - 1) &^ (uint32(1)<<lo - 1))
}
