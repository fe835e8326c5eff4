package report

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("comma", func() {
	It("should group thousands", func() {
		Expect(comma(0)).To(Equal("0"))
		Expect(comma(999)).To(Equal("999"))
		Expect(comma(1000)).To(Equal("1,000"))
		Expect(comma(-1234)).To(Equal("-1,234"))
		Expect(comma(uint16(65535))).To(Equal("65,535"))
		Expect(comma(uint32(123456))).To(Equal("123,456"))
		Expect(comma(uint64(9585059))).To(Equal("9,585,059"))
		Expect(comma("n/a")).To(Equal("n/a"))
	})
})
