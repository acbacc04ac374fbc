package csi2rx

import (
	"fmt"
	"time"
)

// fallbackLinkRate is the fixed link rate in bps used when no pixel
// rate is available from the source.
const fallbackLinkRate = 7423000000

// enterStandby shuts the PHY down and powers the receiver off. It is
// the inverse of exitStandby and is safe to run on a partially brought
// up receiver.
func (v *CSI2RX) enterStandby() error {

	if v.info.gen != genV4H {
		if err := v.writeReg(PHYCNT_REG, 0); err != nil {
			return err
		}

		if err := v.writeReg(PHTC_REG, PHTC_TESTCLR); err != nil {
			return err
		}
	}

	if v.info.gen != genX5H {
		if err := v.rstc.Assert(); err != nil {
			return err
		}
	}

	time.Sleep(100 * time.Microsecond)
	v.pwr.PowerOff()

	return nil
}

func (v *CSI2RX) exitStandby() error {

	if err := v.pwr.PowerOn(); err != nil {
		return err
	}

	if v.info.gen != genX5H {
		return v.rstc.Deassert()
	}

	return nil
}

// standby runs enterStandby on an error path, where the original
// failure is the error worth reporting.
func (v *CSI2RX) standby() {
	if err := v.enterStandby(); err != nil {
		v.log.Printf("failed to enter standby: %v", err)
	}
}

// calcMbps computes the per-lane link speed in Mbps from the source
// pixel rate, or from the fixed fallback rate when the source does not
// report one.
func (v *CSI2RX) calcMbps(bpp uint32, lanes uint) (int, error) {

	bps := uint64(fallbackLinkRate)

	if v.info.gen != genX5H {
		if v.source == nil {
			return 0, ErrNoSource
		}

		rate, err := v.source.PixelRate()

		if err != nil {
			return 0, err
		}

		if rate != 0 {
			bps = rate * uint64(bpp)
		}
	}

	return int(bps / (uint64(lanes) * 1000000)), nil
}

// activeLanes returns the number of lanes to bring up. The source may
// drive fewer lanes than are wired, never more.
func (v *CSI2RX) activeLanes() (uint, error) {

	lanes := v.cfg.Lanes

	if v.info.gen == genX5H || v.source == nil {
		return lanes, nil
	}

	n, err := v.source.ActiveLanes()

	if err != nil {
		return 0, err
	}

	if n == 0 {
		return lanes, nil
	}

	if n > lanes {
		return 0, fmt.Errorf("%w: source drives %d lanes, %d wired",
			ErrInvalidConfig, n, lanes)
	}

	return n, nil
}

// setPHYPLL programs the PLL frequency range register with the value
// nearest the link speed.
func (v *CSI2RX) setPHYPLL(mbps int) error {

	reg, err := v.lookupMbpsReg(v.info.hsFreqRange, mbps)

	if err != nil {
		return err
	}

	if v.info.gen == genV4M {
		return v.writeReg(V4M_PHYPLL, phyPLLHSFreqRange(uint32(reg)))
	}

	return v.writeReg(PHYPLL_REG, phyPLLHSFreqRange(uint32(reg)))
}

// waitPHYStart waits for the clock lane and every active data lane to
// enter the LP-11 stop state.
func (v *CSI2RX) waitPHYStart(lanes uint) error {

	laneMask := uint32(1)<<lanes - 1

	err := v.poll(21, func() (bool, error) {
		clk, err := v.readReg(PHCLM_REG)

		if err != nil {
			return false, err
		}

		data, err := v.readReg(PHDLM_REG)

		if err != nil {
			return false, err
		}

		return clk&PHCLM_STOPSTATECKL != 0 && data&laneMask == laneMask, nil
	})

	if err != nil {
		return fmt.Errorf("%w: LP-11 state not reached", err)
	}

	return nil
}

// startReceiver runs the bring-up sequence shared by the Gen3 family.
func (v *CSI2RX) startReceiver() error {

	format := codeToFormat(v.mf.Code)

	if format == nil {
		return fmt.Errorf("%w: unknown media bus code %#x", ErrInvalidConfig, v.mf.Code)
	}

	// Enable all supported channels with virtual channel and data type
	// matching. Channels 0 and 1 live in VCDT, 2 and 3 in VCDT2.
	var vcdt, vcdt2 uint32

	for i := 0; i < v.info.numChannels; i++ {
		part := vcdtSelVC(uint32(i)) | VCDT_VCDTN_EN | VCDT_SEL_DTN_ON |
			vcdtSelDT(uint32(format.datatype))

		if i < 2 {
			vcdt |= part << (uint(i%2) * 16)
		} else {
			vcdt2 |= part << (uint(i%2) * 16)
		}
	}

	var fld uint32

	if v.mf.Field == FieldAlternate {
		fld = fldDetSel(1) | FLD_FLD_EN4 | FLD_FLD_EN3 | FLD_FLD_EN2 |
			FLD_FLD_EN

		if v.mf.Height == 240 {
			fld |= fldNum(0)
		} else {
			fld |= fldNum(1)
		}
	}

	lanes, err := v.activeLanes()

	if err != nil {
		return err
	}

	phycnt := PHYCNT_ENABLECLK | (uint32(1)<<lanes - 1)

	mbps, err := v.calcMbps(format.bpp, lanes)

	if err != nil {
		return err
	}

	// Enable interrupts
	err = v.writeReg(INTEN_REG,
		INTEN_INT_AFIFO_OF|INTEN_INT_ERRSOTHS|INTEN_INT_ERRSOTSYNCHS)

	if err != nil {
		return err
	}

	// Init
	if err := v.writeReg(TREF_REG, TREF_TREF); err != nil {
		return err
	}

	if err := v.writeReg(PHTC_REG, 0); err != nil {
		return err
	}

	// Configure
	if !v.info.noUseVCDT {
		if err := v.writeReg(VCDT_REG, vcdt); err != nil {
			return err
		}

		if vcdt2 != 0 {
			if err := v.writeReg(VCDT2_REG, vcdt2); err != nil {
				return err
			}
		}
	}

	// Lanes are zero indexed
	var lswap uint32

	for i := 0; i < maxLanes; i++ {
		sel := uint32(i)

		if i < len(v.cfg.LaneSwap) {
			sel = uint32(v.cfg.LaneSwap[i])
		}

		lswap |= lswapLSel(uint32(i), sel-1)
	}

	if err := v.writeReg(LSWAP_REG, lswap); err != nil {
		return err
	}

	// Start
	if v.info.initPHTW != nil {
		if err := v.info.initPHTW(v, mbps); err != nil {
			return err
		}
	}

	if v.info.hsFreqRange != nil {
		if err := v.setPHYPLL(mbps); err != nil {
			return err
		}
	}

	if v.info.csi0ClkFreqRange != 0 {
		err := v.writeReg(CSI0CLKFCPR_REG,
			csi0ClkFreqRange(v.info.csi0ClkFreqRange))

		if err != nil {
			return err
		}
	}

	if v.info.hasPHYFRX {
		err := v.writeReg(PHYFRX_REG,
			PHYFRX_FORCERX_MODE_3|PHYFRX_FORCERX_MODE_2|
				PHYFRX_FORCERX_MODE_1|PHYFRX_FORCERX_MODE_0)

		if err != nil {
			return err
		}
	}

	if err := v.writeReg(PHYCNT_REG, phycnt); err != nil {
		return err
	}

	err = v.writeReg(LINKCNT_REG,
		LINKCNT_MONITOR_EN|LINKCNT_REG_MONI_PACT_EN|LINKCNT_ICLK_NONSTOP)

	if err != nil {
		return err
	}

	if err := v.writeReg(FLD_REG, fld); err != nil {
		return err
	}

	if err := v.writeReg(PHYCNT_REG, phycnt|PHYCNT_SHUTDOWNZ); err != nil {
		return err
	}

	err = v.writeReg(PHYCNT_REG, phycnt|PHYCNT_SHUTDOWNZ|PHYCNT_RSTZ)

	if err != nil {
		return err
	}

	if err := v.waitPHYStart(lanes); err != nil {
		return err
	}

	if v.info.hasPHYFRX {
		if err := v.writeReg(PHYFRX_REG, 0); err != nil {
			return err
		}
	}

	// Run post PHY start initialization, if needed
	if v.info.phyPostInit != nil {
		if err := v.info.phyPostInit(v); err != nil {
			return err
		}
	}

	// Clear Ultra Low Power interrupt
	if v.info.clearULPS {
		err := v.writeReg(INTSTATE_REG,
			INTSTATE_INT_ULPS_START|INTSTATE_INT_ULPS_END)

		if err != nil {
			return err
		}
	}

	return nil
}

// cPHYSetting programs the trio receivers for the given symbol rate,
// Step T3 of the V4H bring-up.
func (v *CSI2RX) cPHYSetting(msps int) error {

	setting, err := v.lookupCPHYSetting(msps)

	if err != nil {
		return err
	}

	static := []struct {
		reg uint32
		val uint16
	}{
		{coreDigRWCommon(7), 0x0155},
		{ppiStartupRWCommonDPHY(7), 0x0068},
		{ppiStartupRWCommonDPHY(8), 0x0010},

		{CORE_DIG_CLANE_0_RW_LP_0, 0x463c},
		{CORE_DIG_CLANE_1_RW_LP_0, 0x463c},
		{CORE_DIG_CLANE_2_RW_LP_0, 0x463c},

		{coreDigCLane0RWHSRX(0), 0x0195},
		{coreDigCLane1RWHSRX(0), 0x0195},
		{coreDigCLane2RWHSRX(0), 0x0195},

		{coreDigCLane0RWHSRX(1), 0x0013},
		{coreDigCLane1RWHSRX(1), 0x0013},
		{coreDigCLane2RWHSRX(1), 0x0013},

		{coreDigCLane0RWHSRX(5), 0x0013},
		{coreDigCLane1RWHSRX(5), 0x0013},
		{coreDigCLane2RWHSRX(5), 0x0013},

		{coreDigCLane0RWHSRX(6), 0x000a},
		{coreDigCLane1RWHSRX(6), 0x000a},
		{coreDigCLane2RWHSRX(6), 0x000a},

		{coreDigCLane0RWHSRX(2), setting.rwHSRX2},
		{coreDigCLane1RWHSRX(2), setting.rwHSRX2},
		{coreDigCLane2RWHSRX(2), setting.rwHSRX2},

		{coreDigIOCtrlRWAFELane0Ctrl2(2), 0x0001},
		{coreDigIOCtrlRWAFELane1Ctrl2(2), 0x0000},
		{coreDigIOCtrlRWAFELane2Ctrl2(2), 0x0001},
		{coreDigIOCtrlRWAFELane3Ctrl2(2), 0x0001},
		{coreDigIOCtrlRWAFELane4Ctrl2(2), 0x0000},

		{coreDigRWTrio0(0), 0x044a},
		{coreDigRWTrio1(0), 0x044a},
		{coreDigRWTrio2(0), 0x044a},
	}

	for _, w := range static {
		if err := v.writeReg16(w.reg, w.val); err != nil {
			return err
		}
	}

	trioRegs := [3]uint32{coreDigRWTrio0(2), coreDigRWTrio1(2), coreDigRWTrio2(2)}

	for _, reg := range trioRegs {
		if err := v.modifyReg16(reg, setting.rwTrio2, mask16(7, 0)); err != nil {
			return err
		}
	}

	trioRegs = [3]uint32{coreDigRWTrio0(1), coreDigRWTrio1(1), coreDigRWTrio2(1)}

	for _, reg := range trioRegs {
		if err := v.writeReg16(reg, setting.rwTrio1); err != nil {
			return err
		}
	}

	trioRegs = [3]uint32{coreDigRWTrio0(0), coreDigRWTrio1(0), coreDigRWTrio2(0)}

	for _, reg := range trioRegs {
		if err := v.modifyReg16(reg, setting.rwTrio0, mask16(11, 9)); err != nil {
			return err
		}
	}

	lp0 := [3]uint32{CORE_DIG_CLANE_0_RW_LP_0, CORE_DIG_CLANE_1_RW_LP_0,
		CORE_DIG_CLANE_2_RW_LP_0}

	for _, reg := range lp0 {
		if err := v.writeReg16(reg, 0x163c); err != nil {
			return err
		}
	}

	// Per-trio receive equalization
	for i, trio := range cphyTrioRegTable {
		val := setting.afeLane029 | uint16(v.cfg.HSReceiveEq[i])

		if err := v.modifyReg16(trio.hsReceive, val, mask16(4, 0)); err != nil {
			return err
		}

		err := v.modifyReg16(trio.ctrl27, setting.afeLane027, mask16(12, 10))

		if err != nil {
			return err
		}
	}

	if v.cfg.PinSwap {
		if err := v.writeReg16(CORE_DIG_CLANE_1_RW_CFG_0, 0xf5); err != nil {
			return err
		}

		if err := v.writeReg16(CORE_DIG_CLANE_1_RW_HS_TX_6, 0x5000); err != nil {
			return err
		}

		for i, trio := range cphyTrioRegTable {
			val := pinSwaps[i].afeClane29 << 8

			if err := v.modifyReg16(trio.pinSwap, val, mask16(8, 8)); err != nil {
				return err
			}

			for _, swap := range pinSwaps {
				if v.cfg.PinSwapRXOrder[i] != swap.code {
					continue
				}

				val = swap.rwCfg0B20 | swap.rwCfg0B3<<3

				err := v.modifyReg16(trio.rwConf, val, mask16(3, 0))

				if err != nil {
					return err
				}
			}
		}
	}

	// Step T4: Leave Shutdown mode
	if err := v.writeReg(DPHY_RSTZ, 1); err != nil {
		return err
	}

	if err := v.writeReg(PHY_SHUTDOWNZ, 1); err != nil {
		return err
	}

	// Step T5: wait for calibration
	err = v.poll(10, func() (bool, error) {
		status, err := v.readReg(ST_PHYST)

		if err != nil {
			return false, err
		}

		return status&ST_PHY_READY != 0, nil
	})

	if err != nil {
		return fmt.Errorf("%w: PHY calibration failed", err)
	}

	return nil
}

// dPHYSetting releases the PHY from shutdown and waits for the
// power-on reset to complete, Steps T4 and T5 of the V4H and V4M
// bring-up.
func (v *CSI2RX) dPHYSetting(mbps int) error {

	step5 := []phtwValue{
		{data: 0x00, code: 0x00},
		{data: 0x00, code: 0x1e},
	}

	// T4: leave shutdown
	if err := v.writeReg(DPHY_RSTZ, 1); err != nil {
		return err
	}

	if err := v.writeReg(PHY_SHUTDOWNZ, 1); err != nil {
		return err
	}

	// T5: internal calibrations ongoing
	if err := v.phtwWriteArray(step5); err != nil {
		return err
	}

	err := v.poll(10, func() (bool, error) {
		status, err := v.readReg(V4M_PHTR)

		if err != nil {
			return false, err
		}

		return (status&0xf0000)&0x70000 != 0, nil
	})

	if err != nil {
		return fmt.Errorf("%w: PHY calibration failed", err)
	}

	return nil
}

func (v *CSI2RX) startReceiverV4H() error {

	format := codeToFormat(v.mf.Code)

	if format == nil {
		return fmt.Errorf("%w: unknown media bus code %#x", ErrInvalidConfig, v.mf.Code)
	}

	lanes, err := v.activeLanes()

	if err != nil {
		return err
	}

	rate, err := v.calcMbps(format.bpp, lanes)

	if err != nil {
		return err
	}

	// C-PHY moves 2.8 bits per symbol, convert Mbps to Msps.
	if v.cfg.Medium == MediumCPHY {
		rate = rate * 10 / 28
	}

	// Step T0: Reset LINK and PHY
	if err := v.writeReg(CSI2_RESETN, 0); err != nil {
		return err
	}

	if err := v.writeReg(DPHY_RSTZ, 0); err != nil {
		return err
	}

	if err := v.writeReg(PHY_SHUTDOWNZ, 0); err != nil {
		return err
	}

	// Step T1: PHY static setting
	err = v.setRegBits(PHY_EN,
		PHY_ENABLE_DCK|PHY_ENABLE_0|PHY_ENABLE_1|PHY_ENABLE_2)

	if err != nil {
		return err
	}

	err = v.setRegBits(FRXM,
		FRXM_FORCERXMODE_DCK|FRXM_FORCERXMODE_0|
			FRXM_FORCERXMODE_1|FRXM_FORCERXMODE_2)

	if err != nil {
		return err
	}

	err = v.setRegBits(OVR1,
		OVR1_FORCERXMODE_DCK|OVR1_FORCERXMODE_0|
			OVR1_FORCERXMODE_1|OVR1_FORCERXMODE_2)

	if err != nil {
		return err
	}

	if err := v.writeReg(FLDC, 0); err != nil {
		return err
	}

	if err := v.writeReg(FLDD, 0); err != nil {
		return err
	}

	if err := v.writeReg(IDIC, 0); err != nil {
		return err
	}

	if err := v.writeReg(PHY_MODE, 1); err != nil {
		return err
	}

	if err := v.writeReg(N_LANES, uint32(lanes-1)); err != nil {
		return err
	}

	// Step T2: Reset CSI2
	if err := v.writeReg(CSI2_RESETN, 1); err != nil {
		return err
	}

	// Step T3: Registers static setting through APB
	static := []struct {
		reg uint32
		val uint16
	}{
		{ppiStartupRWCommonDPHY(10), 0x0030},
		{coreDigAnaCtrlRWCommonAnaCtrl(2), 0x1444},
		{coreDigAnaCtrlRWCommonAnaCtrl(0), 0x1bfd},
		{PPI_STARTUP_RW_COMMON_STARTUP_1_1, 0x0233},
		{ppiStartupRWCommonDPHY(6), 0x0027},
		{PPI_CALIBCTRL_RW_COMMON_BG_0, 0x01f4},
		{PPI_RW_TERMCAL_CFG_0, 0x0013},
		{PPI_RW_OFFSETCAL_CFG_0, 0x0003},
		{PPI_RW_LPDCOCAL_TIMEBASE, 0x004f},
		{PPI_RW_LPDCOCAL_NREF, 0x0320},
		{PPI_RW_LPDCOCAL_NREF_RANGE, 0x000f},
		{PPI_RW_LPDCOCAL_TWAIT_CONFIG, 0xfe18},
		{PPI_RW_LPDCOCAL_VT_CONFIG, 0x0c3c},
		{PPI_RW_LPDCOCAL_COARSE_CFG, 0x0105},
		{coreDigIOCtrlRWAFECBCtrl2(6), 0x1000},
		{PPI_RW_COMMON_CFG, 0x0003},
		{coreDigIOCtrlRWAFECBCtrl2(0), 0x0000},
		{coreDigIOCtrlRWAFECBCtrl2(1), 0x0400},
		{coreDigIOCtrlRWAFECBCtrl2(3), 0x41f6},
		{coreDigIOCtrlRWAFECBCtrl2(0), 0x0000},
		{coreDigIOCtrlRWAFECBCtrl2(3), 0x43f6},
		{coreDigIOCtrlRWAFECBCtrl2(6), 0x3000},
		{coreDigIOCtrlRWAFECBCtrl2(7), 0x0000},
		{coreDigIOCtrlRWAFECBCtrl2(6), 0x3000},
		{coreDigIOCtrlRWAFECBCtrl2(7), 0x0000},
		{coreDigIOCtrlRWAFECBCtrl2(6), 0x7000},
		{coreDigIOCtrlRWAFECBCtrl2(7), 0x0000},
		{coreDigIOCtrlRWAFECBCtrl2(5), 0x4000},
	}

	for _, w := range static {
		if err := v.writeReg16(w.reg, w.val); err != nil {
			return err
		}
	}

	if v.cfg.Medium == MediumCPHY {
		if err := v.cPHYSetting(rate); err != nil {
			return fmt.Errorf("C-PHY setting failed: %w", err)
		}
	} else {
		if err := v.dPHYSetting(rate); err != nil {
			return fmt.Errorf("D-PHY setting failed: %w", err)
		}
	}

	return nil
}

func (v *CSI2RX) startReceiverV4M() error {

	format := codeToFormat(v.mf.Code)

	if format == nil {
		return fmt.Errorf("%w: unknown media bus code %#x", ErrInvalidConfig, v.mf.Code)
	}

	if v.cfg.Medium == MediumCPHY {
		return fmt.Errorf("%w: no C-PHY support on this variant", ErrInvalidConfig)
	}

	lanes, err := v.activeLanes()

	if err != nil {
		return err
	}

	rate, err := v.calcMbps(format.bpp, lanes)

	if err != nil {
		return err
	}

	// Step T0: Reset LINK and PHY
	if err := v.writeReg(CSI2_RESETN, 0); err != nil {
		return err
	}

	if err := v.writeReg(DPHY_RSTZ, 0); err != nil {
		return err
	}

	if err := v.writeReg(PHY_SHUTDOWNZ, 0); err != nil {
		return err
	}

	if err := v.writeReg(PHTC_REG, PHTC_TESTCLR); err != nil {
		return err
	}

	// Step T1: PHY static setting
	err = v.setRegBits(FRXM,
		FRXM_FORCERXMODE_0|FRXM_FORCERXMODE_1|FRXM_FORCERXMODE_2)

	if err != nil {
		return err
	}

	err = v.setRegBits(OVR1,
		OVR1_FORCERXMODE_0|OVR1_FORCERXMODE_1|OVR1_FORCERXMODE_2)

	if err != nil {
		return err
	}

	if err := v.writeReg(FLDC, 0); err != nil {
		return err
	}

	if err := v.writeReg(FLDD, 0); err != nil {
		return err
	}

	if err := v.writeReg(IDIC, 0); err != nil {
		return err
	}

	// Step T2: Reset CSI2
	if err := v.writeReg(PHTC_REG, 0); err != nil {
		return err
	}

	if err := v.writeReg(CSI2_RESETN, 1); err != nil {
		return err
	}

	// Step T3: PHY register is programmed with the PHY in reset
	if v.info.initPHTW != nil {
		if err := v.info.initPHTW(v, rate); err != nil {
			return err
		}
	}

	if err := v.dPHYSetting(rate); err != nil {
		return fmt.Errorf("D-PHY setting failed: %w", err)
	}

	return nil
}

func (v *CSI2RX) startReceiverX5H() error {

	format := codeToFormat(v.mf.Code)

	if format == nil {
		return fmt.Errorf("%w: unknown media bus code %#x", ErrInvalidConfig, v.mf.Code)
	}

	// 1. Reset the controller
	if err := v.modifyReg(PWR_UP, 0, PWR_UP_BIT); err != nil {
		return err
	}

	// 2. PHY programming
	var mode uint32

	if v.cfg.Medium == MediumCPHY {
		mode = 1
	}

	if err := v.modifyReg(PHY_MODE_CFG, mode, PHY_MODE_BIT); err != nil {
		return err
	}

	if err := v.modifyReg(PHY_MODE_CFG, format.bpp, PPI_WIDTH); err != nil {
		return err
	}

	if err := v.modifyReg(PHY_DESKEW_CFG, 0, DESKEW_SYS_CYCLES); err != nil {
		return err
	}

	// 3. SDI programming: bypass mode, no VC or DT filtering
	if err := v.modifyReg(SDI_CFG, 0x1, SDI_ENABLE); err != nil {
		return err
	}

	if err := v.modifyReg(SDI_CFG, 0, SDI_ENCODE_MODE); err != nil {
		return err
	}

	if err := v.modifyReg(SDI_FILTER_CFG, 0, SDI_SELECT_VC_EN); err != nil {
		return err
	}

	if err := v.modifyReg(SDI_FILTER_CFG, 0, SDI_SELECT_VC); err != nil {
		return err
	}

	if err := v.modifyReg(SDI_FILTER_CFG, 0, SDI_SELECT_DT_EN); err != nil {
		return err
	}

	if err := v.modifyReg(SDI_FILTER_CFG, 0, SDI_SELECT_DT); err != nil {
		return err
	}

	if err := v.modifyReg(SDI_FILTER_CFG, 0, SDI_EXCLUDE_SP); err != nil {
		return err
	}

	// 4. Interrupt unmask programming
	unmasks := []struct {
		reg  uint32
		mask uint32
	}{
		{INT_UNMASK_CSI2, UNMASK_HDR_FATAL_ERR_IRQ},
		{INT_UNMASK_CSI2, UNMASK_HDR_NON_FATAL_ERR_IRQ},
		{INT_UNMASK_CSI2, UNMASK_INVALID_RX_LENGTH_ERR_IRQ},
		{INT_UNMASK_CSI2, UNMASK_CRC_ERR_IRQ},
		{INT_UNMASK_CSI2, UNMASK_INVALID_DT_ERR_IRQ},
		{INT_UNMASK_CSI2, UNMASK_MAX_N_DATA_IDS_ERR_IRQ},
		{INT_UNMASK_FRAME, UNMASK_FRAME_BOUNDARY_ERR_IRQ},
		{INT_UNMASK_FRAME, UNMASK_FRAME_SEQUENCE_ERR_IRQ},
		{INT_UNMASK_LINE, UNMASK_LINE_BOUNDARY_ERR_IRQ},
		{INT_UNMASK_LINE, UNMASK_LINE_SEQUENCE_ERR_IRQ},
	}

	for _, u := range unmasks {
		if err := v.modifyReg(u.reg, 0x1, u.mask); err != nil {
			return err
		}
	}

	// 5. Assert PWR_UP to wake the controller
	return v.modifyReg(PWR_UP, 0x1, PWR_UP_BIT)
}

// waitPHYStartV4H waits for the clock lane and all three data lanes to
// report stop state, Step T7 of the V4H and V4M bring-up.
func (v *CSI2RX) waitPHYStartV4H() error {

	const want = ST_STOPSTATE_0 | ST_STOPSTATE_1 | ST_STOPSTATE_2 |
		ST_STOPSTATE_DCK

	return v.poll(10, func() (bool, error) {
		status, err := v.readReg(ST_PHYST)

		if err != nil {
			return false, err
		}

		return status&want == want, nil
	})
}

// start powers the receiver up, runs the variant bring-up sequence and
// starts the upstream source. Callers hold v.mu.
func (v *CSI2RX) start() error {

	if err := v.exitStandby(); err != nil {
		return err
	}

	var err error

	switch v.info.gen {
	case genV4H:
		err = v.startReceiverV4H()
	case genV4M:
		err = v.startReceiverV4M()
	case genX5H:
		err = v.startReceiverX5H()
	default:
		err = v.startReceiver()
	}

	if err != nil {
		v.standby()
		return err
	}

	// Start camera side device
	if v.source != nil {
		if err := v.source.SetStreaming(true); err != nil {
			v.standby()
			return err
		}
	}

	// Confirm lane stop state. Streaming can still work when this
	// times out, so the result is only logged.
	if v.info.gen == genV4H || v.info.gen == genV4M {
		if err := v.waitPHYStartV4H(); err != nil {
			v.log.Printf("lane stop state not confirmed: %v", err)
		}
	}

	// Step T8: De-assert the forced RX mode
	switch v.info.gen {
	case genV4H:
		err = v.clearRegBits(FRXM,
			FRXM_FORCERXMODE_DCK|FRXM_FORCERXMODE_0|
				FRXM_FORCERXMODE_1|FRXM_FORCERXMODE_2)
	case genV4M:
		err = v.clearRegBits(FRXM,
			FRXM_FORCERXMODE_0|FRXM_FORCERXMODE_1|FRXM_FORCERXMODE_2)
	}

	// The source is already transmitting at this point, so a failed
	// deassert unwinds the full bring-up, source included.
	if err != nil {
		v.stopHW()
		return err
	}

	return nil
}

// stopHW stops the upstream source first, then shuts the receiver
// down, so no packets arrive while the PHY is going away. Callers hold
// v.mu.
func (v *CSI2RX) stopHW() {

	if v.source != nil {
		if err := v.source.SetStreaming(false); err != nil {
			v.log.Printf("failed to stop source: %v", err)
		}
	}

	if err := v.enterStandby(); err != nil {
		v.log.Printf("failed to enter standby: %v", err)
	}
}
