// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

// Package zodd implements the core of an embeddable, bottom-up Datalog
// evaluator: sorted Relations, three-compartment Variables driving
// semi-naive fixed-point evaluation, an Iteration to coordinate many
// Variables at once, a merge-join, a leapfrog trie join built on a
// small leaper protocol, an anti-join for stratified negation, a
// group-by aggregate, and a secondary index (in the index subpackage).
//
// The engine is parametric over any tuple type implementing Ordered;
// it never parses a Datalog text surface, and a host program
// constructs relations and drives rounds programmatically.
package zodd
