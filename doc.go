// Package spimemory drives serial NOR flash chips over an SPI bus.
//
// A Flash identifies the chip once (Identify), then guards every read,
// program and erase: the address range is checked against the chip
// capacity, the busy flag is polled, the write enable latch is set for
// modifying commands and, unless high-speed mode is configured, the target
// range is verified erased before programming.
//
// # References:
//
// SPI Flash
//   - [W25Q128]: W25Q128JV-DTR Winbond Serial Flash Memory (https://www.winbond.com/resource-files/W25Q128JV_DTR%20RevD%2012232024%20Plus.pdf)
//   - [W25Q80]: W25Q80DV Winbond Serial Flash Memory
//   - [SST26VF]: SST26VF016B/032B/064B Microchip Serial Quad I/O Flash Memory
//
// FTDI (https://ftdichip.com/document/application-notes/)
//   - [FTDI-AN_114]: Interfacing FT2232H Hi-Speed Devices To SPI Bus (https://ftdichip.com/wp-content/uploads/2020/08/AN_114_FTDI_Hi_Speed_USB_To_SPI_Example.pdf)
//   - [FTDI-AN_135]: FTDI MPSSE Basics (https://ftdichip.com/wp-content/uploads/2020/08/AN_135_MPSSE_Basics.pdf)
package spimemory
