package native

import (
	"context"
	"sort"

	"github.com/JiscSD/native-xml-adapter/model"
	"github.com/JiscSD/native-xml-adapter/store"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Identifier types and advices of <id> elements.
const (
	IDTypeInternal = "internal"
	IDTypePublic   = "public"
	IDTypeDOI      = "doi"

	AdviceIgnore = "ignore"
	AdviceUpdate = "update"
)

// identifiers points at the identifier fields of an entity.
type identifiers struct {
	storedPubID *string
	pubIDs      *map[string]string
	doiID       *int64
}

func appendID(parent *etree.Element, kind, advice, value string) {
	el := parent.CreateElement("id")
	el.CreateAttr("type", kind)
	el.CreateAttr("advice", advice)
	el.SetText(value)
}

// exportIdentifiers writes the internal ID first and then every public
// identifier with the update advice.
func (b base) exportIdentifiers(ctx context.Context, d *Deployment, parent *etree.Element, id int64, ids identifiers) error {
	setInternal(parent, id)
	if ids.storedPubID != nil && *ids.storedPubID != "" {
		appendID(parent, IDTypePublic, AdviceUpdate, *ids.storedPubID)
	}
	if ids.pubIDs != nil {
		types := make([]string, 0, len(*ids.pubIDs))
		for t := range *ids.pubIDs {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			if v := (*ids.pubIDs)[t]; v != "" {
				appendID(parent, t, AdviceUpdate, v)
			}
		}
	}
	if ids.doiID != nil && *ids.doiID != 0 {
		doi, err := d.Store.DOIs.Get(ctx, *ids.doiID)
		switch {
		case err == store.ErrNotFound:
			d.Warn(b.kind, id, "DOI %d not found", *ids.doiID)
		case err != nil:
			return errors.Wrap(err, "DOI lookup failed")
		default:
			appendID(parent, IDTypeDOI, AdviceUpdate, doi.DOI)
		}
	}
	return nil
}

func setInternal(parent *etree.Element, id int64) {
	el := parent.CreateElement("id")
	el.CreateAttr("type", IDTypeInternal)
	el.CreateAttr("advice", AdviceIgnore)
	el.SetText(int64String(id))
}

// parseIdentifier applies one <id> element to an entity. Internal IDs and
// identifiers advised to be ignored never change the entity.
func (b base) parseIdentifier(ctx context.Context, d *Deployment, el *etree.Element, id int64, ids identifiers) error {
	kind := el.SelectAttrValue("type", IDTypeInternal)
	advice := el.SelectAttrValue("advice", AdviceIgnore)
	v := value(el)
	if kind == IDTypeInternal || advice == AdviceIgnore || v == "" {
		return nil
	}
	if advice != AdviceUpdate {
		d.Warn(b.kind, id, "unknown identifier advice %q", advice)
		return nil
	}
	switch kind {
	case IDTypePublic:
		if ids.storedPubID != nil {
			*ids.storedPubID = v
			return nil
		}
	case IDTypeDOI:
		if ids.doiID != nil {
			doiID, err := resolveDOI(ctx, d, v)
			if err != nil {
				return err
			}
			*ids.doiID = doiID
			return nil
		}
	default:
		if ids.pubIDs != nil {
			if *ids.pubIDs == nil {
				*ids.pubIDs = map[string]string{}
			}
			(*ids.pubIDs)[kind] = v
			return nil
		}
	}
	d.Warn(b.kind, id, "identifier of type %q is not supported here", kind)
	return nil
}

// resolveDOI returns the ID of the DOI record with the given value in the
// deployment's context, creating the record when missing.
func resolveDOI(ctx context.Context, d *Deployment, v string) (int64, error) {
	doi, err := store.First(ctx, d.Store.DOIs, func(doi *model.DOI) bool {
		return doi.ContextID == d.Context.ID && doi.DOI == v
	})
	if err == nil {
		return doi.ID, nil
	}
	if err != store.ErrNotFound {
		return 0, errors.Wrap(err, "DOI lookup failed")
	}
	id, err := d.Store.DOIs.Add(ctx, &model.DOI{ContextID: d.Context.ID, DOI: v})
	if err != nil {
		return 0, errors.Wrap(err, "DOI cannot be created")
	}
	return id, nil
}
