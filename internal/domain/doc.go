// Package domain contains the core types of the penguin inference service.
//
// A FeatureRecord is one observation; a Prediction is the label a model
// assigns to it. Neither outlives the request that carries it.
package domain
