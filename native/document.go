package native

import (
	"context"
	"io"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Namespace and schema of native documents.
const (
	Namespace      = "http://pkp.sfu.ca"
	SchemaLocation = Namespace + " native.xsd"
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
)

// ImportDocument reads a native document and imports every entity in it
// under p. The root is either a single entity element or the collection
// wrapper of a kind. Roots of dependent kinds need their enclosing entity
// in p, ErrMissingParent is returned otherwise. Once the document is done, the event sink is told
// about the submissions that were stored.
func (d *Deployment) ImportDocument(ctx context.Context, r io.Reader, p Parent) ([]interface{}, error) {
	root, err := readRoot(r)
	if err != nil {
		return nil, err
	}
	c, collection, ok := d.Registry.ByElement(root.Tag)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRootElement, "<%s>", root.Tag)
	}
	if ns := root.SelectAttrValue("xmlns", ""); ns != "" && ns != Namespace {
		d.Warn(c.Kind(), 0, "unexpected namespace %q", ns)
	}
	if p, err = d.resolveParent(ctx, c.Kind(), p); err != nil {
		return nil, err
	}

	elements := []*etree.Element{root}
	if collection {
		elements = nil
		for _, el := range root.ChildElements() {
			if el.Tag != c.Element() {
				d.Warn(c.Kind(), 0, "unknown element <%s> in <%s>", el.Tag, root.Tag)
				continue
			}
			elements = append(elements, el)
		}
	}

	d.logger.WithField("root", root.Tag).Infof("Importing %d element(s).", len(elements))
	var ret []interface{}
	for _, el := range elements {
		v, err := d.Import(ctx, c.Kind(), el, p)
		if err != nil {
			return ret, err
		}
		if v != nil {
			ret = append(ret, v)
		}
	}

	if len(d.submissions) > 0 {
		if err := d.Events.MetadataChanged(ctx, d.ImportedSubmissions()); err != nil {
			d.logger.WithError(err).Error("Metadata change notification failed.")
		}
	}
	return ret, nil
}

// ExportDocument renders entities of one kind. A single entity becomes the
// root; several are wrapped in the collection element of the kind.
func (d *Deployment) ExportDocument(ctx context.Context, k Kind, items ...interface{}) (*etree.Document, error) {
	c, err := d.Registry.Codec(k)
	if err != nil {
		return nil, err
	}
	var root *etree.Element
	if len(items) == 1 {
		root, err = d.Export(ctx, k, items[0])
		if err != nil {
			return nil, err
		}
	}
	if root == nil {
		if c.Collection() == "" {
			return nil, errors.Errorf("%s cannot be exported as a collection", k)
		}
		root = etree.NewElement(c.Collection())
		if len(items) > 1 {
			for _, item := range items {
				if err := appendExport(ctx, d, root, k, item); err != nil {
					return nil, err
				}
			}
		}
	}
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("xmlns:xsi", xsiNamespace)
	root.CreateAttr("xsi:schemaLocation", SchemaLocation)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	doc.SetRoot(root)
	doc.Indent(2)
	return doc, nil
}

// RootKind returns the kind of the root element of a document.
func RootKind(r io.Reader, reg *Registry) (Kind, error) {
	root, err := readRoot(r)
	if err != nil {
		return 0, err
	}
	c, _, ok := reg.ByElement(root.Tag)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownRootElement, "<%s>", root.Tag)
	}
	return c.Kind(), nil
}

// Validate checks that a document is well formed, has a known root element
// and uses the native namespace.
func Validate(r io.Reader, reg *Registry) error {
	root, err := readRoot(r)
	if err != nil {
		return err
	}
	if _, _, ok := reg.ByElement(root.Tag); !ok {
		return errors.Wrapf(ErrUnknownRootElement, "<%s>", root.Tag)
	}
	if ns := root.SelectAttrValue("xmlns", ""); ns != Namespace {
		return errors.Errorf("root element is not in the %s namespace", Namespace)
	}
	return nil
}

func readRoot(r io.Reader) (*etree.Element, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "document cannot be parsed")
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.Wrap(ErrUnknownRootElement, "document is empty")
	}
	return root, nil
}
