// go-cctalk
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-cctalk.
//
// go-cctalk is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-cctalk is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-cctalk; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package emulator

import (
	"fmt"

	"github.com/ZaparooProject/go-cctalk"
)

var (
	commsRevision   = []byte{1, 4, 4}
	pollingPriority = []byte{2, 20}
	databaseVersion = []byte{0}
	noDataStorage   = []byte{0, 0, 0, 0, 0}
)

// State is the emulated coin acceptor. Handle is a pure function of the
// state and the request: it never touches a transport.
//
// Thread Safety: State is NOT thread-safe. The Emulator serializes access.
type State struct {
	Info          CoreInfo
	Coins         CoinTable
	Credits       [cctalk.CreditHistoryLength]byte
	Counter       byte
	MasterInhibit bool
}

// NewState creates a freshly reset peripheral
func NewState(info CoreInfo, coins CoinTable) *State {
	return &State{
		Info:          info,
		Coins:         coins,
		MasterInhibit: true,
	}
}

// Reset clears the event counter and credit history and inhibits the
// peripheral. Identification and the coin table are kept.
func (s *State) Reset() {
	s.Counter = 0
	s.Credits = [cctalk.CreditHistoryLength]byte{}
	s.MasterInhibit = true
}

// AddCredit records an accepted coin on a 1-based channel
func (s *State) AddCredit(channel byte) error {
	coin, err := s.Coins.Get(channel)
	if err != nil {
		return err
	}

	s.Counter = cctalk.NextCounter(s.Counter)
	copy(s.Credits[2:], s.Credits[:len(s.Credits)-2])
	s.Credits[0] = channel
	s.Credits[1] = coin.SortPath
	return nil
}

// CreditBuffer returns the buffered credit reply content
func (s *State) CreditBuffer() *cctalk.CreditBuffer {
	return &cctalk.CreditBuffer{Counter: s.Counter, History: s.Credits}
}

// Handle applies one request and returns the reply payload. The bool is false
// when the request gets no reply: unsupported headers are ignored
// silently, malformed requests are reported through err.
func (s *State) Handle(req *cctalk.Payload) (*cctalk.Payload, bool, error) {
	switch req.Header {
	case cctalk.HeaderRequestEquipmentCategoryID:
		return text(s.Info.EquipmentCategory)
	case cctalk.HeaderRequestProductCode:
		return text(s.Info.ProductCode)
	case cctalk.HeaderRequestBuildCode:
		return text(s.Info.BuildCode)
	case cctalk.HeaderRequestManufacturerID:
		return text(s.Info.Manufacturer)
	case cctalk.HeaderRequestSoftwareRevision:
		return text(s.Info.SoftwareRevision)

	case cctalk.HeaderSimplePoll, cctalk.HeaderPerformSelfcheck:
		return ack()

	case cctalk.HeaderRequestSerialNumber:
		serial := s.Info.SerialNumber
		return data(byte(serial%256), byte(serial/256), 0)

	case cctalk.HeaderRequestCommsRevision:
		return data(commsRevision...)

	case cctalk.HeaderModifyInhibitStatus:
		if len(req.Data) < 2 {
			return malformed(req, 2)
		}
		s.Coins.ApplyInhibitMask(uint16(req.Data[0]) | uint16(req.Data[1])<<8)
		return ack()

	case cctalk.HeaderRequestInhibitStatus:
		mask := s.Coins.InhibitMask()
		return data(byte(mask), byte(mask>>8))

	case cctalk.HeaderRequestMasterInhibitStatus:
		if s.MasterInhibit {
			return data(0)
		}
		return data(1)

	case cctalk.HeaderModifyMasterInhibitStatus:
		if len(req.Data) < 1 {
			return malformed(req, 1)
		}
		s.MasterInhibit = req.Data[0]&1 == 0
		return ack()

	case cctalk.HeaderRequestCoinID:
		coin, err := s.channelArg(req)
		if err != nil {
			return nil, false, err
		}
		return text(coin.ID)

	case cctalk.HeaderRequestSorterPaths:
		coin, err := s.channelArg(req)
		if err != nil {
			return nil, false, err
		}
		return data(coin.SortPath)

	case cctalk.HeaderReadBufferedCreditOrErrorCodes:
		return data(s.CreditBuffer().Bytes()...)

	case cctalk.HeaderRequestDataStorageAvailability:
		return data(noDataStorage...)

	case cctalk.HeaderResetDevice:
		s.Reset()
		return ack()

	case cctalk.HeaderRequestPollingPriority:
		return data(pollingPriority...)

	case cctalk.HeaderRequestDatabaseVersion:
		return data(databaseVersion...)

	default:
		return nil, false, nil
	}
}

func (s *State) channelArg(req *cctalk.Payload) (CoinInfo, error) {
	if len(req.Data) < 1 {
		_, _, err := malformed(req, 1)
		return CoinInfo{}, err
	}
	coin, err := s.Coins.Get(req.Data[0])
	if err != nil {
		return CoinInfo{}, fmt.Errorf("%s: %w", req.Header, err)
	}
	return coin, nil
}

func ack() (*cctalk.Payload, bool, error) {
	return cctalk.NewPayload(cctalk.HeaderReply), true, nil
}

func data(b ...byte) (*cctalk.Payload, bool, error) {
	return cctalk.NewPayload(cctalk.HeaderReply, b...), true, nil
}

func text(s string) (*cctalk.Payload, bool, error) {
	return data([]byte(s)...)
}

func malformed(req *cctalk.Payload, want int) (*cctalk.Payload, bool, error) {
	return nil, false, fmt.Errorf("%w: %s needs %d data bytes, got %d",
		cctalk.ErrInvalidParameter, req.Header, want, len(req.Data))
}
