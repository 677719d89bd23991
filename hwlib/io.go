// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

// InputPins returns the pinout of a boundary input device.
//
//	Outputs: out[bits]
//
func InputPins(bits int) (in, out []Pin) { return nil, []Pin{{pOut, bits}} }

// OutputPins returns the pinout of a boundary output device.
//
//	Inputs: in[bits]
//
func OutputPins(bits int) (in, out []Pin) { return []Pin{{pIn, bits}}, nil }

// ConstantPins returns the pinout of a constant driver.
//
//	Outputs: out[bits]
//
func ConstantPins(bits int) (in, out []Pin) { return nil, []Pin{{pOut, bits}} }
