// Package hcl provides the HCL implementation of the config.Loader
// interface. It parses diagram files and translates their blocks into the
// format-agnostic config.Diagram.
//
// A diagram file holds any number of labelled blocks:
//
//	block "weibull" "pump" {
//	  inputs {
//	    shape = 1.5
//	    time  = 100
//	  }
//	}
//
//	block "series" "line" {
//	  params { n = 2 }
//	  inputs {
//	    in1 = pump.reliability
//	    in2 = 0.99
//	  }
//	}
//
// The first label names the kind and the second names the block. Within
// inputs, an attribute of the form node.port connects the input to that
// output; any other attribute must be a constant expression and becomes
// the input's literal. Parameters are always constant expressions.
package hcl
