package ecore

import (
	"fmt"
	"io"

	"github.com/modelmesh-lang/modelmesh/pkg/value"
)

// EPackage is a fully-linked metamodel package: its classifiers
// carry live cross-references instead of bare identifiers.
type EPackage struct {
	Id           value.ObjectId
	Name         string
	NsURI        string
	NsPrefix     string
	EClassifiers []Classifier
	ESubpackages []*EPackage
}

func (p *EPackage) GetClassifier(name string) Classifier {
	for _, c := range p.EClassifiers {
		if c.GetName() == name {
			return c
		}
	}
	return nil
}

func (p *EPackage) GetEClass(name string) *EClass {
	if c, ok := p.GetClassifier(name).(*EClass); ok {
		return c
	}
	return nil
}

func (p *EPackage) GetSubpackage(name string) *EPackage {
	for _, s := range p.ESubpackages {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Dump writes a readable rendering of the package tree.
func (p *EPackage) Dump(w io.Writer) {
	p.dump(w, "")
}

func (p *EPackage) dump(w io.Writer, gap string) {
	fmt.Fprintf(w, "%spackage %s (%s)\n", gap, p.Name, p.NsURI)
	for _, c := range p.EClassifiers {
		switch e := c.(type) {
		case *EClass:
			fmt.Fprintf(w, "%s  class %s\n", gap, e.Name)
			for _, f := range e.EStructuralFeatures {
				switch f := f.(type) {
				case *EReference:
					containment := ""
					if f.Containment {
						containment = " containment"
					}
					typ := "<untyped>"
					if f.EType != nil {
						typ = f.EType.Name
					}
					fmt.Fprintf(w, "%s    ref %s: %s%s\n", gap, f.Name, typ, containment)
				case *EAttribute:
					typ := "<untyped>"
					if f.EType != nil {
						typ = f.EType.GetName()
					}
					fmt.Fprintf(w, "%s    attr %s: %s\n", gap, f.GetName(), typ)
				}
			}
		case *EEnum:
			fmt.Fprintf(w, "%s  enum %s\n", gap, e.Name)
		case *EDataType:
			fmt.Fprintf(w, "%s  datatype %s\n", gap, e.Name)
		}
	}
	for _, s := range p.ESubpackages {
		s.dump(w, gap+"  ")
	}
}
