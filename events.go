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

package cctalk

import "fmt"

// CoinAcceptorError is a coin acceptor fault code as reported in the
// buffered credit history when the channel byte is zero. Codes outside the
// table keep their raw value.
type CoinAcceptorError byte

// Coin acceptor fault codes.
const (
	CoinRejectCoin                  CoinAcceptorError = 1
	CoinInhibitedCoin               CoinAcceptorError = 2
	CoinMultipleWindow              CoinAcceptorError = 3
	CoinWakeUpTimeout               CoinAcceptorError = 4
	CoinValidationTimeout           CoinAcceptorError = 5
	CoinCreditSensorTimeout         CoinAcceptorError = 6
	CoinSorterOptoTimeout           CoinAcceptorError = 7
	CoinSecondCloseCoinError        CoinAcceptorError = 8
	CoinAcceptGateNotReady          CoinAcceptorError = 9
	CoinCreditSensorNotReady        CoinAcceptorError = 10
	CoinSorterNotReady              CoinAcceptorError = 11
	CoinRejectCoinNotCleared        CoinAcceptorError = 12
	CoinValidationSensorNotReady    CoinAcceptorError = 13
	CoinCreditSensorBlocked         CoinAcceptorError = 14
	CoinSorterOptoBlocked           CoinAcceptorError = 15
	CoinCreditSequenceError         CoinAcceptorError = 16
	CoinCoinGoingBackwards          CoinAcceptorError = 17
	CoinCoinTooFastCreditSensor     CoinAcceptorError = 18
	CoinCoinTooSlowCreditSensor     CoinAcceptorError = 19
	CoinCoinOnStringActive          CoinAcceptorError = 20
	CoinDCEOptoTimeout              CoinAcceptorError = 21
	CoinDCEOptoNotSeen              CoinAcceptorError = 22
	CoinCreditSensorReachedEarly    CoinAcceptorError = 23
	CoinRejectCoinRepeatedly        CoinAcceptorError = 24
	CoinRejectSlug                  CoinAcceptorError = 25
	CoinRejectSensorBlocked         CoinAcceptorError = 26
	CoinGamesOverload               CoinAcceptorError = 27
	CoinMaxCoinMeterPulsesExceeded  CoinAcceptorError = 28
	CoinAcceptGateOpenNotClosed     CoinAcceptorError = 29
	CoinAcceptGateClosedNotOpen     CoinAcceptorError = 30
	CoinManifoldOptoTimeout         CoinAcceptorError = 31
	CoinManifoldOptoBlocked         CoinAcceptorError = 32
	CoinManifoldNotReady            CoinAcceptorError = 33
	CoinSecurityStatusChanged       CoinAcceptorError = 34
	CoinMotorException              CoinAcceptorError = 35
	CoinSwallowedCoin               CoinAcceptorError = 36
	CoinCoinTooFastValidationSensor CoinAcceptorError = 37
	CoinCoinTooSlowValidationSensor CoinAcceptorError = 38
	CoinCoinIncorrectlySorted       CoinAcceptorError = 39
	CoinExternalLightAttack         CoinAcceptorError = 40
	CoinInhibitedCoinType1          CoinAcceptorError = 128
	CoinInhibitedCoinType2          CoinAcceptorError = 129
	CoinInhibitedCoinType3          CoinAcceptorError = 130
	CoinInhibitedCoinType4          CoinAcceptorError = 131
	CoinInhibitedCoinType5          CoinAcceptorError = 132
	CoinInhibitedCoinType6          CoinAcceptorError = 133
	CoinDataBlockRequest            CoinAcceptorError = 253
	CoinFlightDeckOpen              CoinAcceptorError = 254
	CoinUnspecifiedAlarm            CoinAcceptorError = 255
)

var coinErrorNames = map[CoinAcceptorError]string{
	CoinRejectCoin:                  "RejectCoin",
	CoinInhibitedCoin:               "InhibitedCoin",
	CoinMultipleWindow:              "MultipleWindow",
	CoinWakeUpTimeout:               "WakeUpTimeout",
	CoinValidationTimeout:           "ValidationTimeout",
	CoinCreditSensorTimeout:         "CreditSensorTimeout",
	CoinSorterOptoTimeout:           "SorterOptoTimeout",
	CoinSecondCloseCoinError:        "SecondCloseCoinError",
	CoinAcceptGateNotReady:          "AcceptGateNotReady",
	CoinCreditSensorNotReady:        "CreditSensorNotReady",
	CoinSorterNotReady:              "SorterNotReady",
	CoinRejectCoinNotCleared:        "RejectCoinNotCleared",
	CoinValidationSensorNotReady:    "ValidationSensorNotReady",
	CoinCreditSensorBlocked:         "CreditSensorBlocked",
	CoinSorterOptoBlocked:           "SorterOptoBlocked",
	CoinCreditSequenceError:         "CreditSequenceError",
	CoinCoinGoingBackwards:          "CoinGoingBackwards",
	CoinCoinTooFastCreditSensor:     "CoinTooFastCreditSensor",
	CoinCoinTooSlowCreditSensor:     "CoinTooSlowCreditSensor",
	CoinCoinOnStringActive:          "CoinOnStringActive",
	CoinDCEOptoTimeout:              "DCEOptoTimeout",
	CoinDCEOptoNotSeen:              "DCEOptoNotSeen",
	CoinCreditSensorReachedEarly:    "CreditSensorReachedEarly",
	CoinRejectCoinRepeatedly:        "RejectCoinRepeatedly",
	CoinRejectSlug:                  "RejectSlug",
	CoinRejectSensorBlocked:         "RejectSensorBlocked",
	CoinGamesOverload:               "GamesOverload",
	CoinMaxCoinMeterPulsesExceeded:  "MaxCoinMeterPulsesExceeded",
	CoinAcceptGateOpenNotClosed:     "AcceptGateOpenNotClosed",
	CoinAcceptGateClosedNotOpen:     "AcceptGateClosedNotOpen",
	CoinManifoldOptoTimeout:         "ManifoldOptoTimeout",
	CoinManifoldOptoBlocked:         "ManifoldOptoBlocked",
	CoinManifoldNotReady:            "ManifoldNotReady",
	CoinSecurityStatusChanged:       "SecurityStatusChanged",
	CoinMotorException:              "MotorException",
	CoinSwallowedCoin:               "SwallowedCoin",
	CoinCoinTooFastValidationSensor: "CoinTooFastValidationSensor",
	CoinCoinTooSlowValidationSensor: "CoinTooSlowValidationSensor",
	CoinCoinIncorrectlySorted:       "CoinIncorrectlySorted",
	CoinExternalLightAttack:         "ExternalLightAttack",
	CoinInhibitedCoinType1:          "InhibitedCoinType1",
	CoinInhibitedCoinType2:          "InhibitedCoinType2",
	CoinInhibitedCoinType3:          "InhibitedCoinType3",
	CoinInhibitedCoinType4:          "InhibitedCoinType4",
	CoinInhibitedCoinType5:          "InhibitedCoinType5",
	CoinInhibitedCoinType6:          "InhibitedCoinType6",
	CoinDataBlockRequest:            "DataBlockRequest",
	CoinFlightDeckOpen:              "FlightDeckOpen",
	CoinUnspecifiedAlarm:            "UnspecifiedAlarm",
}

// Known reports whether the code has a name in the fault table.
func (e CoinAcceptorError) Known() bool {
	_, ok := coinErrorNames[e]
	return ok
}

func (e CoinAcceptorError) String() string {
	if name, ok := coinErrorNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", byte(e))
}

// BillEvent is the (event, error) byte pair read from a bill validator's
// event buffer. Pairs outside the table are preserved as they were read.
type BillEvent struct {
	Event byte
	Error byte
}

// Bill validator events.
var (
	BillTypeValidatedAndSent1   = BillEvent{1, 0}
	BillTypeValidatedAndSent2   = BillEvent{2, 0}
	BillTypeValidatedAndSent3   = BillEvent{3, 0}
	BillTypeValidatedAndSent4   = BillEvent{4, 0}
	BillTypeValidatedAndSent5   = BillEvent{5, 0}
	BillTypeValidatedAndSent6   = BillEvent{6, 0}
	BillTypeValidatedAndHeld1   = BillEvent{1, 1}
	BillTypeValidatedAndHeld2   = BillEvent{2, 1}
	BillTypeValidatedAndHeld3   = BillEvent{3, 1}
	BillTypeValidatedAndHeld4   = BillEvent{4, 1}
	BillTypeValidatedAndHeld5   = BillEvent{5, 1}
	BillTypeValidatedAndHeld6   = BillEvent{6, 1}
	BillMasterInhibitActive     = BillEvent{0, 0}
	BillReturnedFromEscrow      = BillEvent{0, 1}
	BillInvalidBillValidation   = BillEvent{0, 2}
	BillInvalidBillTransport    = BillEvent{0, 3}
	BillInhibitedBillSerial     = BillEvent{0, 4}
	BillInhibitedBillDIP        = BillEvent{0, 5}
	BillJammedInTransportUnsafe = BillEvent{0, 6}
	BillJammedInStacker         = BillEvent{0, 7}
	BillPulledBackwards         = BillEvent{0, 8}
	BillTamper                  = BillEvent{0, 9}
	BillStackerOK               = BillEvent{0, 10}
	BillStackerRemoved          = BillEvent{0, 11}
	BillStackerInserted         = BillEvent{0, 12}
	BillStackerFaulty           = BillEvent{0, 13}
	BillStackerFull             = BillEvent{0, 14}
	BillStackerJammed           = BillEvent{0, 15}
	BillJammedInTransportSafe   = BillEvent{0, 16}
	BillOptoFraudDetected       = BillEvent{0, 17}
	BillStringFraudDetected     = BillEvent{0, 18}
	BillAntiStringMechFaulty    = BillEvent{0, 19}
	BillBarcodeDetected         = BillEvent{0, 20}
	BillUnknownBillTypeStacked  = BillEvent{0, 21}
)

var billEventNames = map[BillEvent]string{
	BillTypeValidatedAndSent1:   "BillTypeValidatedAndSent1",
	BillTypeValidatedAndSent2:   "BillTypeValidatedAndSent2",
	BillTypeValidatedAndSent3:   "BillTypeValidatedAndSent3",
	BillTypeValidatedAndSent4:   "BillTypeValidatedAndSent4",
	BillTypeValidatedAndSent5:   "BillTypeValidatedAndSent5",
	BillTypeValidatedAndSent6:   "BillTypeValidatedAndSent6",
	BillTypeValidatedAndHeld1:   "BillTypeValidatedAndHeld1",
	BillTypeValidatedAndHeld2:   "BillTypeValidatedAndHeld2",
	BillTypeValidatedAndHeld3:   "BillTypeValidatedAndHeld3",
	BillTypeValidatedAndHeld4:   "BillTypeValidatedAndHeld4",
	BillTypeValidatedAndHeld5:   "BillTypeValidatedAndHeld5",
	BillTypeValidatedAndHeld6:   "BillTypeValidatedAndHeld6",
	BillMasterInhibitActive:     "MasterInhibitActive",
	BillReturnedFromEscrow:      "BillReturnedFromEscrow",
	BillInvalidBillValidation:   "InvalidBillValidation",
	BillInvalidBillTransport:    "InvalidBillTransport",
	BillInhibitedBillSerial:     "InhibitedBillSerial",
	BillInhibitedBillDIP:        "InhibitedBillDIP",
	BillJammedInTransportUnsafe: "BillJammedInTransportUnsafe",
	BillJammedInStacker:         "BillJammedInStacker",
	BillPulledBackwards:         "BillPulledBackwards",
	BillTamper:                  "BillTamper",
	BillStackerOK:               "StackerOK",
	BillStackerRemoved:          "StackerRemoved",
	BillStackerInserted:         "StackerInserted",
	BillStackerFaulty:           "StackerFaulty",
	BillStackerFull:             "StackerFull",
	BillStackerJammed:           "StackerJammed",
	BillJammedInTransportSafe:   "BillJammedInTransportSafe",
	BillOptoFraudDetected:       "OptoFraudDetected",
	BillStringFraudDetected:     "StringFraudDetected",
	BillAntiStringMechFaulty:    "AntiStringMechFaulty",
	BillBarcodeDetected:         "BarcodeDetected",
	BillUnknownBillTypeStacked:  "UnknownBillTypeStacked",
}

// NewBillEvent builds a BillEvent from the two raw buffer bytes.
func NewBillEvent(event, errorCode byte) BillEvent {
	return BillEvent{Event: event, Error: errorCode}
}

// Bytes returns the event as the raw (event, error) pair.
func (b BillEvent) Bytes() (event, errorCode byte) {
	return b.Event, b.Error
}

// Known reports whether the pair has a name in the event table.
func (b BillEvent) Known() bool {
	_, ok := billEventNames[b]
	return ok
}

func (b BillEvent) String() string {
	if name, ok := billEventNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d, %d)", b.Event, b.Error)
}
