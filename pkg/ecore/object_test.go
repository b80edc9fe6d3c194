package ecore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

func TestDynamicObject(t *testing.T) {
	t.Run("provides identity and class name", func(t *testing.T) {
		obj := NewObject("Person")
		assert.False(t, obj.GetId().IsNil())
		assert.Equal(t, "Person", obj.GetClassName())
		assert.Nil(t, obj.GetClass())
	})

	t.Run("returns nil for unset features", func(t *testing.T) {
		obj := NewObject("Person")
		assert.Nil(t, obj.Get("name"))
	})

	t.Run("stores and retrieves feature values", func(t *testing.T) {
		obj := NewObject("Person")
		obj.Set("name", value.String("alice"))
		obj.Set("age", value.Int(42))
		assert.Equal(t, value.String("alice"), obj.Get("name"))
		assert.Equal(t, value.Int(42), obj.Get("age"))
	})

	t.Run("preserves feature insertion order", func(t *testing.T) {
		obj := NewObject("Person")
		obj.Set("b", value.Int(1))
		obj.Set("a", value.Int(2))
		obj.Set("c", value.Int(3))
		assert.Equal(t, []string{"b", "a", "c"}, obj.FeatureNames())
	})

	t.Run("clears a feature by setting nil", func(t *testing.T) {
		obj := NewObject("Person")
		obj.Set("name", value.String("alice"))
		obj.Set("name", nil)
		assert.Nil(t, obj.Get("name"))
		assert.Empty(t, obj.FeatureNames())
	})

	t.Run("overwrites without duplicating the feature entry", func(t *testing.T) {
		obj := NewObject("Person")
		obj.Set("name", value.String("alice"))
		obj.Set("name", value.String("bob"))
		assert.Equal(t, []string{"name"}, obj.FeatureNames())
		assert.Equal(t, value.String("bob"), obj.Get("name"))
	})
}

func TestVersion(t *testing.T) {
	t.Run("changes when the state changes", func(t *testing.T) {
		obj := NewObject("Person")
		v1 := obj.Version()
		obj.Set("name", value.String("alice"))
		assert.NotEqual(t, v1, obj.Version())
	})

	t.Run("is stable for identical state", func(t *testing.T) {
		obj := NewObject("Person")
		obj.Set("name", value.String("alice"))
		other := NewDynamicObject(obj.GetId(), "Person")
		other.Set("name", value.String("alice"))
		assert.Equal(t, obj.Version(), other.Version())
	})

	t.Run("does not depend on assignment order", func(t *testing.T) {
		obj := NewObject("Person")
		obj.Set("name", value.String("alice"))
		obj.Set("age", value.Int(42))
		other := NewDynamicObject(obj.GetId(), "Person")
		other.Set("age", value.Int(42))
		other.Set("name", value.String("alice"))
		assert.Equal(t, obj.Version(), other.Version())
	})
}
