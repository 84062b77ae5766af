package joints_test

import (
	"fmt"
	"regexp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/actuate/internal/dynamo"
	"github.com/san-kum/actuate/internal/joints"
)

var articulations = [][]string{
	{},
	{"base"},
	{"hip_left", "hip_right", "knee_left", "knee_right"},
	{"panda_joint1", "panda_joint2", "panda_joint3", "panda_joint4", "panda_joint5", "panda_joint6", "panda_joint7", "panda_finger_joint1", "panda_finger_joint2"},
	{"LF_HAA", "LF_HFE", "LF_KFE", "RF_HAA", "RF_HFE", "RF_KFE", "LH_HAA", "LH_HFE", "LH_KFE", "RH_HAA", "RH_HFE", "RH_KFE"},
}

var patternLists = [][]string{
	{".*"},
	{"hip_.*", "hip_left", ".*_left"},
	{"panda_finger_.*", "panda_joint[1-4]", "panda_joint[1-4]"},
	{"RH_.*", "LF_.*", ".*_KFE"},
	{"nothing_matches"},
}

var _ = Describe("Resolve", func() {
	It("returns strictly increasing in-range indices for every pattern list", func() {
		for _, names := range articulations {
			for _, patterns := range patternLists {
				set, err := joints.Resolve(joints.Patterns(patterns...), names)
				Expect(err).NotTo(HaveOccurred())
				Expect(set.Names).To(HaveLen(len(set.Indices)))

				prev := -1
				for k, idx := range set.Indices {
					Expect(idx).To(BeNumerically(">", prev), "patterns %v over %v", patterns, names)
					Expect(idx).To(BeNumerically("<", len(names)))
					Expect(set.Names[k]).To(Equal(names[idx]))
					prev = idx
				}
			}
		}
	})

	It("treats the all-joints selection like one exact pattern per name", func() {
		for _, names := range articulations {
			all, err := joints.Resolve(joints.AllJoints(), names)
			Expect(err).NotTo(HaveOccurred())
			Expect(all.All).To(BeTrue())

			if len(names) == 0 {
				Expect(all.Indices).To(BeEmpty())
				continue
			}

			exact := make([]string, len(names))
			for i, n := range names {
				exact[i] = regexp.QuoteMeta(n)
			}
			explicit, err := joints.Resolve(joints.Patterns(exact...), names)
			Expect(err).NotTo(HaveOccurred())
			Expect(all.Indices).To(Equal(explicit.Indices))
			Expect(all.Names).To(Equal(explicit.Names))
		}
	})

	It("rejects an empty explicit pattern list", func() {
		_, err := joints.Resolve(joints.Patterns(), articulations[2])
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})
})

var _ = Describe("Overlay", func() {
	names := []string{"hip_left", "hip_right"}

	It("lets a later pattern win only for the joints it matches", func() {
		buf := dynamo.NewField(4, len(names))
		Expect(joints.Overlay(buf, names, joints.PatternValues{
			{Pattern: "hip_.*", Value: joints.Value(50)},
			{Pattern: "hip_left", Value: joints.Value(80)},
		})).To(Succeed())

		for e := 0; e < buf.Envs(); e++ {
			Expect(buf.Row(e)).To(Equal([]float64{80, 50}))
		}
	})

	DescribeTable("keeps the last declared value for a contested joint",
		func(first, second float64) {
			buf := dynamo.NewField(1, len(names))
			Expect(joints.Overlay(buf, names, joints.PatternValues{
				{Pattern: "hip_left", Value: joints.Value(first)},
				{Pattern: fmt.Sprintf("hip_(left|%s)", "nope"), Value: joints.Value(second)},
			})).To(Succeed())
			Expect(buf.At(0, 0)).To(Equal(second))
			Expect(buf.At(0, 1)).To(BeZero())
		},
		Entry("increasing", 10.0, 20.0),
		Entry("decreasing", 20.0, 10.0),
		Entry("zero override", 5.0, 0.0),
	)
})
