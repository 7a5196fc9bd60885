package nav

import (
	"github.com/vanderheijden86/regionwork/pkg/debug"
	"github.com/vanderheijden86/regionwork/pkg/model"
)

const noUnlabeledMessage = "every region has a label"

// NextUnlabeled selects the next region without labels, searching forward
// from the selection and then from the start of the list.
func (n *Navigator) NextUnlabeled() *model.Region {
	return n.nextUnlabeled(n.Regions(), false)
}

// PreviousUnlabeled selects the previous region without labels.
func (n *Navigator) PreviousUnlabeled() *model.Region {
	return n.nextUnlabeled(model.Reversed(n.Regions()), true)
}

func (n *Navigator) nextUnlabeled(regions []*model.Region, reverse bool) *model.Region {
	if len(regions) == 0 {
		n.notifyNoUnlabeled()
		return nil
	}

	current := n.Selected()
	if current == nil {
		current = regions[0]
	}

	// Already on an unlabeled region: step through the unlabeled ones.
	if current.IsUnlabeled() {
		empties := UnlabeledRegions(n.source.Regions())
		if reverse {
			empties = model.Reversed(empties)
		}
		r := n.SelectNext(empties, true)
		if r == nil {
			n.notifyNoUnlabeled()
		}
		return r
	}

	i := model.IndexOf(regions, current.ID)
	if i == -1 {
		debug.Log("next unlabeled: %v: %s", ErrLookupFailure, current.ID)
		return nil
	}
	if r := n.SelectRegion(FirstUnlabeled(regions[i:])); r != nil {
		return r
	}
	r := n.SelectRegion(FirstUnlabeled(regions[:i]))
	if r == nil {
		n.notifyNoUnlabeled()
	}
	return r
}

func (n *Navigator) notifyNoUnlabeled() {
	n.notifier.Notify(Notice{Level: NoticeInfo, Message: noUnlabeledMessage})
}
